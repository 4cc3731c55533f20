package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/timeline/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-x string   database driver ("pgx" or "sqlite")
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      minted access token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-m string   classifier URL
//	-k string   classifier API key
//	-T int      classifier timeout, seconds
//	-i int      change feed polling interval, seconds
//
// Duration flags are integers converted to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-x", "-d", "-s", "-t", "-u", "-p", "-b", "-g", "-e", "-m", "-k", "-T", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "x", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.ClassifierURL, "m", config.ClassifierURL, "mood classifier URL")
	fs.StringVar(&config.ClassifierAPIKey, "k", config.ClassifierAPIKey, "mood classifier API key")
	classifierTimeout := fs.Int("T", int(config.ClassifierTimeout.Seconds()), "classifier timeout (in seconds)")
	feedInterval := fs.Int("i", int(config.FeedInterval.Seconds()), "change feed polling interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.ClassifierTimeout = time.Duration(*classifierTimeout) * time.Second
	config.FeedInterval = time.Duration(*feedInterval) * time.Second
}
