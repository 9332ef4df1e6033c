// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Body provides a fluent interface for building JSON documents
// using sjson for path-based manipulation.
//
// The builder tracks the first error internally so calls can be chained;
// check it with String(), Bytes() or Err().
//
// Example:
//
//	report, err := dnac.Body{}.
//	    Set("date", "2024-01-01").
//	    Set("devices", []any{}).
//	    Append("devices", map[string]any{"id": "SW1"}).
//	    String()
type Body struct {
	str string
	err error
}

// Set sets a value at the specified JSON path and returns a new Body
//
// The path uses sjson dot notation (e.g. "summary.failed"). Any value that
// encoding/json can marshal is accepted.
//
// Once an error occurs, all subsequent operations are no-ops that preserve the error.
func (b Body) Set(path string, value any) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.Set(b.str, path, value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", path, err)}
	}
	return Body{str: result}
}

// Append adds value to the end of the array at path.
//
// The array must already exist, e.g. created with Set(path, []any{}).
func (b Body) Append(path string, value any) Body {
	return b.Set(path+".-1", value)
}

// Delete removes a value at the specified JSON path and returns a new Body
func (b Body) Delete(path string) Body {
	if b.err != nil {
		return b
	}

	result, err := sjson.Delete(b.str, path)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Delete(%q): %w", path, err)}
	}
	return Body{str: result}
}

// String returns the JSON string and any error encountered during building
func (b Body) String() (string, error) {
	return b.str, b.err
}

// Err returns any error that occurred during the building process
func (b Body) Err() error {
	return b.err
}

// Bytes returns the JSON as a byte slice and any error encountered during building
func (b Body) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return []byte(b.str), nil
}
