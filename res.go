// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"github.com/tidwall/gjson"
)

// Res represents a controller response
type Res struct {
	// StatusCode is the HTTP status code
	StatusCode int

	// Body is the raw response body
	Body string
}

// Get retrieves a value from the response body using a gjson path.
//
// Example paths:
//   - "response" - the result envelope of intent API calls
//   - "response.#" - number of records in the envelope
//   - "response.0.id" - id of the first record
//   - "Token" - the token returned by the auth endpoint
//
// Returns an empty gjson.Result if the body is not valid JSON.
//
// Example:
//
//	res, err := client.Get(ctx, dnac.DeviceConfigPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	count := res.Get("response.#").Int()
func (r Res) Get(path string) gjson.Result {
	if !gjson.Valid(r.Body) {
		return gjson.Result{}
	}
	return gjson.Get(r.Body, path)
}

// JSON returns the raw response body, or an empty string if it is not valid JSON.
func (r Res) JSON() string {
	if !gjson.Valid(r.Body) {
		return ""
	}
	return r.Body
}

// OK reports whether the status code is 2xx
func (r Res) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
