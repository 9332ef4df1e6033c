// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"net/http"
	"time"
)

// Client configuration options using the functional options pattern

// Token sets the bearer token sent in the X-Auth-Token header
func Token(token string) func(*Client) {
	return func(c *Client) {
		c.token = token
	}
}

// Username sets the username used by Login
func Username(username string) func(*Client) {
	return func(c *Client) {
		c.username = username
	}
}

// Password sets the password used by Login
func Password(password string) func(*Client) {
	return func(c *Client) {
		c.password = password
	}
}

// VerifyCertificate enables or disables TLS certificate verification (default: true)
//
// WARNING: Disabling certificate verification makes the connection vulnerable
// to Man-in-the-Middle attacks. Only use this against lab controllers with
// self-signed certificates.
//
// The setting only affects the transport. It is ignored when a custom HTTP
// client is supplied with WithHTTPClient.
func VerifyCertificate(verify bool) func(*Client) {
	return func(c *Client) {
		c.VerifyCertificate = verify
	}
}

// RequestTimeout sets the default per-request timeout (default: 30s)
func RequestTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.RequestTimeout = duration
	}
}

// WithHTTPClient replaces the HTTP client used for all requests
func WithHTTPClient(hc *http.Client) func(*Client) {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger configures a custom logger for the client
//
// By default, the client uses NoOpLogger which discards all log messages.
//
// Response bodies logged at Debug level are redacted (token, password,
// secret, key, community, auth fields) before they reach the logger.
//
// Example:
//
//	logger := dnac.NewDefaultLogger(dnac.LogLevelInfo)
//	client, _ := dnac.NewClient("https://dnac.example.com",
//	    dnac.Token(token),
//	    dnac.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in debug logs (default: true)
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Clock overrides the time source used for request timestamps (default: time.Now)
func Clock(now func() time.Time) func(*Client) {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Request modifiers for individual operations

// Timeout returns a request modifier that sets a custom timeout for the operation.
//
// The timeout priority model is:
//  1. Request-specific timeout (this modifier) - highest priority
//  2. Context deadline (if already set) - medium priority
//  3. Client.RequestTimeout - fallback default
//
// Example:
//
//	res, err := client.Get(ctx, dnac.DeviceConfigPath,
//	    dnac.Timeout(2*time.Minute))
func Timeout(duration time.Duration) func(*Req) {
	return func(req *Req) {
		req.Timeout = duration
	}
}

// Query returns a request modifier that adds a query parameter.
//
// Example:
//
//	res, err := client.Get(ctx, dnac.NetworkHealthPath,
//	    dnac.Query("timestamp", "1700000000000"))
func Query(key, value string) func(*Req) {
	return func(req *Req) {
		req.Query.Add(key, value)
	}
}

// Exporter options

// OutputDir sets the root directory for exported configuration files (default: "configs")
func OutputDir(dir string) func(*Exporter) {
	return func(e *Exporter) {
		if dir != "" {
			e.OutputDir = dir
		}
	}
}

// FailFast makes the first filesystem error abort the export (default: false)
//
// By default a file that cannot be written is recorded as a failed result
// and the remaining devices are still exported.
func FailFast(enabled bool) func(*Exporter) {
	return func(e *Exporter) {
		e.FailFast = enabled
	}
}

// WithClock overrides the time source used for the date stamp
func WithClock(now func() time.Time) func(*Exporter) {
	return func(e *Exporter) {
		if now != nil {
			e.now = now
		}
	}
}

// ExportLogger sets the logger used by the exporter and the clients it creates
func ExportLogger(logger Logger) func(*Exporter) {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClientOptions appends options applied to every client the exporter creates
func WithClientOptions(opts ...func(*Client)) func(*Exporter) {
	return func(e *Exporter) {
		e.clientOpts = append(e.clientOpts, opts...)
	}
}
