package util

import (
	"strconv"
)

// ParseUint parses a decimal record identifier. Negative and overflowing
// values are rejected along with garbage, so callers can answer 400
// instead of querying record 0.
func ParseUint(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// ParseInt64 parses a decimal problem identifier.
func ParseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
