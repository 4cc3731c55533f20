package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// Provider limits of the document store and the classifier service.
const (
	// MaxBatchWrite is the largest number of items one batched write may carry.
	MaxBatchWrite = 500

	// ArchiveLimit is how many deleted entries are kept per user.
	ArchiveLimit = 30

	// MonthSampleSize bounds the excerpt samples kept per month.
	MonthSampleSize = 10

	// ClassifierMaxBatch is the largest batch the classifier accepts.
	ClassifierMaxBatch = 25
)
