// Package metrics provides Prometheus collectors for skydash components.
package metrics

// Histogram bucket parameters shared across collectors.
const (
	BucketStart50ms = 0.05
	BucketStart1ms  = 0.001
	BucketFactor2   = 2
	BucketCount10   = 10
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)
