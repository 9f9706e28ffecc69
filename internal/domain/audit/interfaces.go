package audit

import "context"

// Repository provides persistence for log entries. Append must place the
// entry at the head of the log.
type Repository interface {
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context, opts ListOptions) ([]Entry, error)
}
