// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"errors"
	"fmt"
)

// RemoteRequestError is returned when a controller request fails, either at
// the transport level (DNS, refused connection, timeout, TLS) or with a
// non-2xx HTTP status. It is fatal for the operation that produced it.
type RemoteRequestError struct {
	// Operation name that failed (e.g. "Get", "Login")
	Operation string

	// Method and URL of the request
	Method string
	URL    string

	// StatusCode is 0 for transport failures
	StatusCode int

	// Status is the HTTP status line text, e.g. "404 Not Found"
	Status string

	// Human-readable error message
	Message string

	// InternalMsg holds the (truncated) response body for internal logging
	InternalMsg string

	// Err is the underlying transport or decoding error, if any
	Err error
}

// Error implements the error interface
func (e *RemoteRequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dnac: %s %s failed: %s", e.Operation, e.URL, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("dnac: %s %s failed: %s: %v", e.Operation, e.URL, e.Message, e.Err)
	}
	return fmt.Sprintf("dnac: %s %s failed: %s", e.Operation, e.URL, e.Message)
}

// DetailedError returns the full error message including the response body.
//
// The body may contain controller internals; only use this in debug output.
func (e *RemoteRequestError) DetailedError() string {
	if e.InternalMsg == "" {
		return e.Error()
	}
	return fmt.Sprintf("%s (internal: %s)", e.Error(), e.InternalMsg)
}

func (e *RemoteRequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request failed because a deadline expired.
func (e *RemoteRequestError) Timeout() bool {
	var t interface{ Timeout() bool }
	if errors.As(e.Err, &t) {
		return t.Timeout()
	}
	return false
}

// MalformedRecordError describes a device record in a controller response
// that lacks a required field or carries an unusable value. It is recorded
// per record and never aborts a batch.
type MalformedRecordError struct {
	// Index of the record in the response array
	Index int

	// DeviceID if it could be read
	DeviceID string

	// Field that is missing or invalid
	Field string

	// Reason is a short description, e.g. "missing" or "contains a path separator"
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.DeviceID != "" {
		return fmt.Sprintf("dnac: malformed record %d (device %s): field %q %s", e.Index, e.DeviceID, e.Field, e.Reason)
	}
	return fmt.Sprintf("dnac: malformed record %d: field %q %s", e.Index, e.Field, e.Reason)
}

// FilesystemError is returned when an output directory or file cannot be
// created or written.
type FilesystemError struct {
	// Op is "mkdir" or "write"
	Op string

	// Path that could not be created or written
	Path string

	Err error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("dnac: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// IsRemoteRequestError reports whether err wraps a *RemoteRequestError.
func IsRemoteRequestError(err error) bool {
	var target *RemoteRequestError
	return errors.As(err, &target)
}

// IsMalformedRecordError reports whether err wraps a *MalformedRecordError.
func IsMalformedRecordError(err error) bool {
	var target *MalformedRecordError
	return errors.As(err, &target)
}

// IsFilesystemError reports whether err wraps a *FilesystemError.
func IsFilesystemError(err error) bool {
	var target *FilesystemError
	return errors.As(err, &target)
}
