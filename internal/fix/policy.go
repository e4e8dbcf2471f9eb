package fix

import (
	"fmt"
	"strings"
)

// Policy decides what a bad record does to the stream.
type Policy string

const (
	// PolicyFail stops the stream with the record's error.
	PolicyFail Policy = "fail"
	// PolicySkip emits an empty line for the record and carries on.
	PolicySkip Policy = "skip"
)

// ParsePolicy validates a policy name. Matching is case-insensitive.
func ParsePolicy(name string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(name))); p {
	case PolicyFail, PolicySkip:
		return p, nil
	default:
		return "", fmt.Errorf("unknown policy %q (want %q or %q)", name, PolicyFail, PolicySkip)
	}
}
