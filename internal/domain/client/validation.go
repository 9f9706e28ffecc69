package client

import (
	"fmt"
	"slices"
	"strings"
)

// ParseStatus returns the known status matching value, ignoring case.
func ParseStatus(value string) (Status, bool) {
	for _, status := range Statuses {
		if strings.EqualFold(strings.TrimSpace(value), string(status)) {
			return status, true
		}
	}
	return "", false
}

// ValidateClient validates fields a manual save must satisfy.
func ValidateClient(c Client) error {
	if c.Status != "" && !slices.Contains(Statuses, c.Status) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, c.Status)
	}
	return nil
}
