// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxPathLength is the maximum length for an API path
const MaxPathLength = 1024

// MaxResponseSize is the maximum response body size read from the controller (256MB)
const MaxResponseSize = 256 * 1024 * 1024

// validatePath checks an API path before it is joined to the base URL
//
// Checks:
//   - Path is not empty and starts with "/"
//   - Path length does not exceed MaxPathLength
//   - Path contains no null bytes and no "/../" segment
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if len(path) > MaxPathLength {
		return fmt.Errorf("path exceeds maximum length of %d characters: %s", MaxPathLength, truncate(path, 100))
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must start with '/': %s", path)
	}
	if i := strings.IndexByte(path, 0); i >= 0 {
		return fmt.Errorf("path contains null byte at position %d", i)
	}
	if i := strings.Index(path, "/../"); i >= 0 || strings.HasSuffix(path, "/..") {
		return fmt.Errorf("path contains traversal segment '..'")
	}
	return nil
}

// Get performs a GET request against the controller
//
// The request carries the X-Auth-Token, Content-Type and Accept headers and
// no body. It is issued exactly once; there is no retry.
//
// Any transport failure or non-2xx status is returned as *RemoteRequestError.
//
// Example:
//
//	res, err := client.Get(ctx, dnac.DeviceConfigPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range res.Get("response").Array() {
//	    fmt.Println(rec.Get("id").String())
//	}
func (c *Client) Get(ctx context.Context, path string, mods ...func(*Req)) (Res, error) {
	if err := validatePath(path); err != nil {
		return Res{}, fmt.Errorf("get: %w", err)
	}

	req := newReq(mods...)
	return c.do(ctx, "Get", http.MethodGet, path, req, func(r *http.Request) {
		r.Header.Set("X-Auth-Token", c.currentToken())
	})
}

// Login obtains a token with HTTP basic authentication and stores it on the client
//
// Subsequent requests use the returned token. A client created with Token()
// does not need to log in.
//
// Example:
//
//	client, _ := dnac.NewClient(baseURL,
//	    dnac.Username("admin"),
//	    dnac.Password("secret"))
//	token, err := client.Login(ctx)
func (c *Client) Login(ctx context.Context, mods ...func(*Req)) (string, error) {
	if c.username == "" || c.password == "" {
		return "", fmt.Errorf("login: username and password are required")
	}

	req := newReq(mods...)
	res, err := c.do(ctx, "Login", http.MethodPost, AuthTokenPath, req, func(r *http.Request) {
		r.SetBasicAuth(c.username, c.password)
	})
	if err != nil {
		return "", err
	}

	token := res.Get("Token").String()
	if token == "" {
		return "", &RemoteRequestError{
			Operation:  "Login",
			Method:     http.MethodPost,
			URL:        c.BaseURL + AuthTokenPath,
			StatusCode: res.StatusCode,
			Status:     http.StatusText(res.StatusCode),
			Message:    "response contains no token",
		}
	}

	c.setToken(token)
	c.logger.Info(ctx, "controller login succeeded",
		"base_url", c.BaseURL)

	return token, nil
}

// do executes a single request and converts failures to *RemoteRequestError
func (c *Client) do(ctx context.Context, op, method, path string, req *Req, auth func(*http.Request)) (Res, error) {
	target := c.BaseURL + path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	remoteErr := func(msg string, err error) *RemoteRequestError {
		return &RemoteRequestError{
			Operation: op,
			Method:    method,
			URL:       c.BaseURL + path,
			Message:   msg,
			Err:       err,
		}
	}

	reqCtx, cancel := c.createRequestContext(ctx, req)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, method, target, nil)
	if err != nil {
		return Res{}, remoteErr("create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	auth(httpReq)

	c.logger.Debug(ctx, "controller request",
		"operation", op,
		"method", method,
		"path", path)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error(ctx, "controller request failed",
			"operation", op,
			"path", path,
			"error", err.Error())
		return Res{}, remoteErr("request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return Res{}, remoteErr("read response", err)
	}

	res := Res{StatusCode: resp.StatusCode, Body: string(body)}

	if !res.OK() {
		c.logger.Error(ctx, "controller returned error status",
			"operation", op,
			"path", path,
			"status", resp.Status)
		return res, &RemoteRequestError{
			Operation:   op,
			Method:      method,
			URL:         c.BaseURL + path,
			StatusCode:  resp.StatusCode,
			Status:      resp.Status,
			Message:     resp.Status,
			InternalMsg: truncate(c.redactSensitiveData(res.Body), MaxErrorBodyLength),
		}
	}

	c.logger.Debug(ctx, "controller response",
		"operation", op,
		"status", resp.StatusCode,
		"bytes", len(body),
		"body", c.prepareJSONForLogging(ctx, res.Body))

	return res, nil
}
