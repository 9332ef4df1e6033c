// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"net/url"
	"time"
)

// API paths used by the client
const (
	// AuthTokenPath issues a token for HTTP basic credentials
	AuthTokenPath = "/dna/system/api/v1/auth/token"

	// DeviceConfigPath returns the running configuration of every managed device
	DeviceConfigPath = "/dna/intent/api/v1/network-device/config"

	// NetworkHealthPath returns the overall network health distribution
	NetworkHealthPath = "/dna/intent/api/v1/network-health"
)

// Req represents a request modifier target
//
// This struct is used to apply request-specific options via functional modifiers.
// The path is passed directly to the operation.
//
// Example:
//
//	res, err := client.Get(ctx, dnac.NetworkHealthPath,
//	    dnac.Query("timestamp", ts),
//	    dnac.Timeout(30*time.Second))
type Req struct {
	// Timeout is the request-specific timeout
	// Overrides client default timeout if set
	Timeout time.Duration

	// Query parameters appended to the URL
	Query url.Values
}

func newReq(mods ...func(*Req)) *Req {
	req := &Req{Query: url.Values{}}
	for _, mod := range mods {
		mod(req)
	}
	return req
}
