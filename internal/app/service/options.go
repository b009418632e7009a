package service

import "time"

// Options represents configuration options for the Service.
type Options struct {
	SnapshotInterval time.Duration
	SnapshotDepth    int
}

// DefaultServiceOptions returns the default service options.
func DefaultServiceOptions() *Options {
	return &Options{
		SnapshotInterval: 30 * time.Second,
		SnapshotDepth:    10,
	}
}
