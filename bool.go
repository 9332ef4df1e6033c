// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"fmt"
	"strings"
)

// Accepted spellings for boolean settings such as SSL_CERTIFICATE
var (
	TrueValues  = []string{"y", "yes", "t", "true", "on", "1"}
	FalseValues = []string{"n", "no", "f", "false", "off", "0"}
)

// ParseBool parses a boolean setting, case-insensitively.
//
// Returns an error for anything not in TrueValues or FalseValues,
// including the empty string.
//
// Example:
//
//	verify, err := dnac.ParseBool(os.Getenv("SSL_CERTIFICATE"))
func ParseBool(s string) (bool, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, t := range TrueValues {
		if v == t {
			return true, nil
		}
	}
	for _, f := range FalseValues {
		if v == f {
			return false, nil
		}
	}
	return false, fmt.Errorf("invalid boolean value %q (valid values: %s / %s)",
		s, strings.Join(TrueValues, ", "), strings.Join(FalseValues, ", "))
}
