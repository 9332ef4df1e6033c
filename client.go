// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Default client configuration values
const (
	DefaultRequestTimeout    = 30 * time.Second
	DefaultVerifyCertificate = true
	DefaultPrettyPrintLogs   = true
)

// Security limits for JSON processing and logging
const (
	MaxJSONSizeForLogging = 1 * 1024 * 1024 // larger bodies are not logged
	MaxSensitiveFields    = 1000            // max redaction operations per body
	MaxErrorBodyLength    = 512             // response body kept in RemoteRequestError.InternalMsg
)

// Logging message constants
const (
	JSONTooLargeMessage     = "[JSON TOO LARGE FOR LOGGING]"
	JSONTooManySensitiveMsg = "[JSON CONTAINS TOO MANY SENSITIVE FIELDS]"
)

// sensitiveFields are redacted from JSON bodies before logging
var sensitiveFields = []string{"password", "secret", "key", "community", "token", "auth"}

// defaultRedactionPatterns match sensitiveFields case-insensitively
var defaultRedactionPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(sensitiveFields))
	for _, field := range sensitiveFields {
		patterns = append(patterns, regexp.MustCompile(`(?i)"`+field+`"\s*:\s*"[^"]*"`))
	}
	return patterns
}()

// Client is a REST client for a Catalyst Center (DNA Center) controller
type Client struct {
	httpClient *http.Client

	// mu guards token, which Login may replace
	mu sync.RWMutex

	// BaseURL is the controller URL without trailing slash, e.g. "https://10.10.20.85"
	BaseURL string

	token    string // unexported for security
	username string // unexported for security
	password string // unexported for security

	// VerifyCertificate controls TLS certificate validation
	VerifyCertificate bool

	// RequestTimeout is the default per-request timeout
	RequestTimeout time.Duration

	// Logging configuration
	logger            Logger
	prettyPrintLogs   bool
	redactionPatterns []*regexp.Regexp

	now func() time.Time
}

// NewClient creates a new controller client with the specified base URL and options
//
// No request is made until an operation is called.
//
// Example:
//
//	client, err := dnac.NewClient(
//	    "https://sandboxdnac.cisco.com",
//	    dnac.Username("devnetuser"),
//	    dnac.Password("secret"),
//	    dnac.VerifyCertificate(false),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := client.Login(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	res, err := client.Get(ctx, dnac.DeviceConfigPath)
//
// Returns a configured Client or an error if configuration validation fails.
func NewClient(baseURL string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		BaseURL:           strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		VerifyCertificate: DefaultVerifyCertificate,
		RequestTimeout:    DefaultRequestTimeout,
		logger:            &NoOpLogger{},
		prettyPrintLogs:   DefaultPrettyPrintLogs,
		redactionPatterns: defaultRedactionPatterns,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	if client.httpClient == nil {
		client.httpClient = newHTTPClient(client.VerifyCertificate)
	}

	client.logger.Debug(context.Background(), "controller client created",
		"base_url", client.BaseURL,
		"verify_certificate", client.VerifyCertificate)

	return client, nil
}

// newHTTPClient clones the default transport and applies the TLS setting.
// Timeouts are applied per request through the context.
func newHTTPClient(verify bool) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion: tls.VersionTLS12,
		//nolint:gosec // G402: opt-in for lab controllers with self-signed certificates
		InsecureSkipVerify: !verify,
	}
	return &http.Client{Transport: transport}
}

// HasToken returns true if a bearer token is configured
func (c *Client) HasToken() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// validateConfig validates client configuration
//
// Validates:
//   - Base URL is non-empty, parseable, http or https, and has a host
//   - Positive request timeout
//
// Returns an error if validation fails.
func (c *Client) validateConfig() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base URL scheme %q (must be http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL has no host: %s", c.BaseURL)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got: %v", c.RequestTimeout)
	}

	if !c.VerifyCertificate {
		c.logger.Warn(context.Background(), "TLS certificate verification disabled",
			"base_url", c.BaseURL,
			"security_risk", "Man-in-the-Middle attacks possible",
			"recommendation", "Use only against lab controllers")
	}

	return nil
}

// prepareJSONForLogging redacts sensitive data and formats JSON for logging
//
//  1. Bodies over MaxJSONSizeForLogging are replaced by a marker
//  2. Bodies with more than MaxSensitiveFields sensitive keys are replaced by a marker
//  3. Sensitive values are replaced with [REDACTED]
//  4. The result is indented if prettyPrintLogs is enabled
func (c *Client) prepareJSONForLogging(ctx context.Context, jsonStr string) string {
	if len(jsonStr) > MaxJSONSizeForLogging {
		return JSONTooLargeMessage
	}

	lower := strings.ToLower(jsonStr)
	sensitiveCount := 0
	for _, field := range sensitiveFields {
		sensitiveCount += strings.Count(lower, `"`+field+`"`)
	}
	if sensitiveCount > MaxSensitiveFields {
		c.logger.Warn(ctx, "Too many sensitive fields detected",
			"count", sensitiveCount,
			"max", MaxSensitiveFields)
		return JSONTooManySensitiveMsg
	}

	redacted := c.redactSensitiveData(jsonStr)

	if c.prettyPrintLogs {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(redacted), "", "  "); err == nil {
			return buf.String()
		}
	}

	return redacted
}

// redactSensitiveData replaces sensitive values in JSON with [REDACTED]
func (c *Client) redactSensitiveData(json string) string {
	result := json
	for i, pattern := range c.redactionPatterns {
		result = pattern.ReplaceAllString(result, `"`+sensitiveFields[i]+`":"[REDACTED]"`)
	}
	return result
}

// createRequestContext applies the request timeout
//
// Timeout priority model:
//  1. Request-specific timeout (req.Timeout > 0)
//  2. Existing context deadline
//  3. Client default timeout (c.RequestTimeout)
//
// The caller must call the returned cancel function.
func (c *Client) createRequestContext(ctx context.Context, req *Req) (context.Context, context.CancelFunc) {
	if req.Timeout > 0 {
		return context.WithTimeout(ctx, req.Timeout)
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.RequestTimeout)
}

// truncate shortens s to n bytes for error messages
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...[TRUNCATED]"
}
