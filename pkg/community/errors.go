package community

import "errors"

// Sentinel errors shared by loaders and the tracker
var (
	ErrSnapshotNotFound   = errors.New("snapshot data not found")
	ErrMalformedPartition = errors.New("malformed partition")
)
