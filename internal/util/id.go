package util

import (
	"strings"

	"github.com/google/uuid"
)

// ShortID returns n random hex characters taken from a fresh UUID.
func ShortID(n int) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n <= 0 || n > len(raw) {
		return raw
	}
	return raw[:n]
}

// NewID returns prefix-XXXX style identifiers with n upper-case characters.
func NewID(prefix string, n int) string {
	id := strings.ToUpper(ShortID(n))
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
