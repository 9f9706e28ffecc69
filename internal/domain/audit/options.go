package audit

// ListOptions provides filtering options for listing log entries.
type ListOptions struct {
	ClientID string
	Limit    int
	Offset   int
}
