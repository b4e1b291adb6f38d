package health

import "context"

// IndexPinger checks search-store availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// RecordPinger checks system-of-record availability.
type RecordPinger interface {
	Ping(ctx context.Context) error
}
