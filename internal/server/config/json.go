package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/timeline/internal/flagx"
	"github.com/dmitrijs2005/timeline/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration. Interval
// fields use timex.Duration, so both "3s" and integer nanoseconds work.
// Zero values leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDriver              string         `json:"database_driver"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ClassifierURL               string         `json:"classifier_url"`
	ClassifierAPIKey            string         `json:"classifier_api_key"`
	ClassifierTimeout           timex.Duration `json:"classifier_timeout"`
	QueueBatchSize              int            `json:"queue_batch_size"`
	QueueDelay                  timex.Duration `json:"queue_delay"`
	QueueBackoff                timex.Duration `json:"queue_backoff"`
	FeedInterval                timex.Duration `json:"feed_interval"`
}

// parseJson overlays values from the JSON file named by -c/-config.
// Without the flag nothing is loaded. An unreadable or invalid file panics,
// since the server cannot start with a half-applied configuration.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.ClassifierURL, c.ClassifierURL)
	setString(&config.ClassifierAPIKey, c.ClassifierAPIKey)

	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ClassifierTimeout.Duration > 0 {
		config.ClassifierTimeout = c.ClassifierTimeout.Duration
	}
	if c.QueueBatchSize > 0 {
		config.QueueBatchSize = c.QueueBatchSize
	}
	if c.QueueDelay.Duration > 0 {
		config.QueueDelay = c.QueueDelay.Duration
	}
	if c.QueueBackoff.Duration > 0 {
		config.QueueBackoff = c.QueueBackoff.Duration
	}
	if c.FeedInterval.Duration > 0 {
		config.FeedInterval = c.FeedInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
