// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Export defaults
const (
	DefaultOutputDir = "configs"

	// DateLayout is the date stamp used in directory and file names
	DateLayout = "2006-01-02"
)

// ExportRequest holds the parameters of one export run
type ExportRequest struct {
	// BaseURL of the controller, no trailing slash required
	BaseURL string

	// Token is the bearer token obtained by a prior login
	Token string

	// VerifyTLS enables certificate validation on the controller connection
	VerifyTLS bool

	// DomainLabel optionally namespaces the output as <domain>/<date>/
	DomainLabel string
}

// DeviceConfigRecord is one device entry of the config endpoint
type DeviceConfigRecord struct {
	// Index in the response array
	Index int

	ID            string
	RunningConfig string
}

// DeviceConfigs is the parsed result of the config endpoint
type DeviceConfigs struct {
	// Records holds the well-formed entries in response order
	Records []DeviceConfigRecord

	// Malformed holds one error per skipped entry
	Malformed []*MalformedRecordError
}

// ExportResult is the outcome for a single device record
type ExportResult struct {
	// Index of the record in the controller response
	Index int

	// DeviceID is empty if the record had no readable id
	DeviceID string

	// Path of the written file, empty on failure
	Path string

	// Err is a *MalformedRecordError or *FilesystemError on failure
	Err error
}

// OK reports whether the file was written
func (r ExportResult) OK() bool {
	return r.Err == nil
}

// ExportReport summarizes an export run
type ExportReport struct {
	// RunID identifies the run in logs and reports
	RunID string

	// Date stamp shared by all files of the run
	Date string

	// Dir is the directory files were written to
	Dir string

	// Results in controller response order
	Results []ExportResult
}

// Succeeded returns the results whose file was written
func (r ExportReport) Succeeded() []ExportResult {
	var out []ExportResult
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the results that carry an error
func (r ExportReport) Failed() []ExportResult {
	var out []ExportResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Err joins all per-record errors, or returns nil if every record succeeded
func (r ExportReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

// JSON renders the report as a JSON document
func (r ExportReport) JSON() (string, error) {
	body := Body{}.
		Set("run_id", r.RunID).
		Set("date", r.Date).
		Set("dir", r.Dir).
		Set("succeeded", len(r.Succeeded())).
		Set("failed", len(r.Failed())).
		Set("results", []any{})

	for _, res := range r.Results {
		entry := map[string]any{
			"index":     res.Index,
			"device_id": res.DeviceID,
		}
		if res.OK() {
			entry["path"] = res.Path
		} else {
			entry["error"] = res.Err.Error()
		}
		body = body.Append("results", entry)
	}

	return body.String()
}

// ConfigFileName returns the file name for a device config on a given date
func ConfigFileName(deviceID, date string) string {
	return deviceID + "_" + date + ".txt"
}

// ConfigDir returns the output directory for a run
//
// Without a domain label this is root itself, otherwise root/domain/date.
func ConfigDir(root, domain, date string) string {
	if domain == "" {
		return root
	}
	return filepath.Join(root, domain, date)
}

// validatePathSegment checks a value that becomes a single path element
func validatePathSegment(s string) string {
	switch {
	case s == "":
		return "is empty"
	case s == "." || s == "..":
		return "is a relative path element"
	case strings.ContainsAny(s, `/\`):
		return "contains a path separator"
	case strings.IndexByte(s, 0) >= 0:
		return "contains a null byte"
	}
	return ""
}

// parseDeviceConfigs reads the response envelope of the config endpoint
//
// A missing or non-array "response" is an error for the whole response.
// Entries without a string "id" or "runningConfig" are returned as
// malformed and do not affect the other entries.
func parseDeviceConfigs(res Res, url string) (DeviceConfigs, error) {
	envelope := res.Get("response")
	if !envelope.IsArray() {
		return DeviceConfigs{}, &RemoteRequestError{
			Operation:   "GetDeviceConfigs",
			Method:      http.MethodGet,
			URL:         url,
			StatusCode:  res.StatusCode,
			Status:      http.StatusText(res.StatusCode),
			Message:     `unexpected response envelope: "response" is not an array`,
			InternalMsg: truncate(res.Body, MaxErrorBodyLength),
		}
	}

	var out DeviceConfigs
	for i, item := range envelope.Array() {
		rec, merr := parseDeviceConfigRecord(i, item)
		if merr != nil {
			out.Malformed = append(out.Malformed, merr)
			continue
		}
		out.Records = append(out.Records, rec)
	}
	return out, nil
}

func parseDeviceConfigRecord(index int, item gjson.Result) (DeviceConfigRecord, *MalformedRecordError) {
	if !item.IsObject() {
		return DeviceConfigRecord{}, &MalformedRecordError{Index: index, Field: "id", Reason: "record is not an object"}
	}

	id := item.Get("id")
	if !id.Exists() || id.Type != gjson.String {
		return DeviceConfigRecord{}, &MalformedRecordError{Index: index, Field: "id", Reason: "is missing or not a string"}
	}
	if reason := validatePathSegment(id.String()); reason != "" {
		return DeviceConfigRecord{}, &MalformedRecordError{Index: index, DeviceID: id.String(), Field: "id", Reason: reason}
	}

	cfg := item.Get("runningConfig")
	if !cfg.Exists() || cfg.Type != gjson.String {
		return DeviceConfigRecord{}, &MalformedRecordError{Index: index, DeviceID: id.String(), Field: "runningConfig", Reason: "is missing or not a string"}
	}

	return DeviceConfigRecord{Index: index, ID: id.String(), RunningConfig: cfg.String()}, nil
}

// GetDeviceConfigs retrieves the running configuration of every managed device
//
// Well-formed entries are returned in response order; malformed entries are
// listed separately and never cause an error.
//
// Example:
//
//	cfgs, err := client.GetDeviceConfigs(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, rec := range cfgs.Records {
//	    fmt.Println(rec.ID, len(rec.RunningConfig))
//	}
func (c *Client) GetDeviceConfigs(ctx context.Context, mods ...func(*Req)) (DeviceConfigs, error) {
	res, err := c.Get(ctx, DeviceConfigPath, mods...)
	if err != nil {
		return DeviceConfigs{}, err
	}
	cfgs, err := parseDeviceConfigs(res, c.BaseURL+DeviceConfigPath)
	if err != nil {
		return DeviceConfigs{}, err
	}

	c.logger.Info(ctx, "device configs retrieved",
		"records", len(cfgs.Records),
		"malformed", len(cfgs.Malformed))

	return cfgs, nil
}

// Exporter writes device running configurations to dated text files
type Exporter struct {
	// OutputDir is the root output directory (default: "configs")
	OutputDir string

	// FailFast aborts the run on the first filesystem error
	FailFast bool

	logger     Logger
	now        func() time.Time
	clientOpts []func(*Client)
}

// NewExporter creates an Exporter with the given options
//
// Example:
//
//	exp := dnac.NewExporter(dnac.OutputDir("backups"))
//	report, err := exp.Export(ctx, dnac.ExportRequest{
//	    BaseURL:     "https://10.10.20.85",
//	    Token:       token,
//	    VerifyTLS:   false,
//	    DomainLabel: "lab1",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, res := range report.Failed() {
//	    log.Printf("device %s: %v", res.DeviceID, res.Err)
//	}
func NewExporter(opts ...func(*Exporter)) *Exporter {
	e := &Exporter{
		OutputDir: DefaultOutputDir,
		logger:    &NoOpLogger{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export fetches all device configurations and writes one file per device
//
// Files are named <id>_<date>.txt and written to OutputDir, or to
// OutputDir/<domain>/<date> when a domain label is given. Existing files
// of the same name are overwritten, so repeated runs on the same day are
// idempotent.
//
// The returned error is non-nil only for fatal conditions: invalid request,
// *RemoteRequestError, or the first *FilesystemError when FailFast is set.
// Per-record failures are reported in the ExportReport.
func (e *Exporter) Export(ctx context.Context, req ExportRequest) (ExportReport, error) {
	if strings.TrimSpace(req.BaseURL) == "" {
		return ExportReport{}, fmt.Errorf("export: base URL cannot be empty")
	}
	if strings.TrimSpace(req.Token) == "" {
		return ExportReport{}, fmt.Errorf("export: token cannot be empty")
	}
	if req.DomainLabel != "" {
		if reason := validatePathSegment(req.DomainLabel); reason != "" {
			return ExportReport{}, fmt.Errorf("export: domain label %q %s", req.DomainLabel, reason)
		}
	}

	opts := []func(*Client){
		WithLogger(e.logger),
		Token(req.Token),
		VerifyCertificate(req.VerifyTLS),
		Clock(e.now),
	}
	opts = append(opts, e.clientOpts...)

	client, err := NewClient(req.BaseURL, opts...)
	if err != nil {
		return ExportReport{}, fmt.Errorf("export: %w", err)
	}

	runID := uuid.NewString()

	res, err := client.Get(ctx, DeviceConfigPath)
	if err != nil {
		return ExportReport{}, err
	}
	cfgs, err := parseDeviceConfigs(res, client.BaseURL+DeviceConfigPath)
	if err != nil {
		return ExportReport{}, err
	}

	date := e.now().Format(DateLayout)
	report := ExportReport{
		RunID: runID,
		Date:  date,
		Dir:   ConfigDir(e.OutputDir, req.DomainLabel, date),
	}

	e.logger.Info(ctx, "device config export started",
		"run_id", runID,
		"records", len(cfgs.Records)+len(cfgs.Malformed),
		"dir", report.Dir)

	var dirErr error
	if err := os.MkdirAll(report.Dir, 0o755); err != nil {
		dirErr = &FilesystemError{Op: "mkdir", Path: report.Dir, Err: err}
		e.logger.Error(ctx, "cannot create output directory",
			"run_id", runID,
			"dir", report.Dir,
			"error", err.Error())
		if e.FailFast {
			return report, dirErr
		}
	}

	report.Results = make([]ExportResult, 0, len(cfgs.Records)+len(cfgs.Malformed))
	malformed := cfgs.Malformed
	for _, rec := range cfgs.Records {
		// keep response order by emitting malformed entries that precede rec
		for len(malformed) > 0 && malformed[0].Index < rec.Index {
			report.Results = append(report.Results, e.malformedResult(ctx, runID, malformed[0]))
			malformed = malformed[1:]
		}

		result := ExportResult{Index: rec.Index, DeviceID: rec.ID}
		if dirErr != nil {
			result.Err = dirErr
			report.Results = append(report.Results, result)
			continue
		}

		path := filepath.Join(report.Dir, ConfigFileName(rec.ID, date))
		if err := os.WriteFile(path, []byte(strings.TrimSpace(rec.RunningConfig)), 0o644); err != nil {
			fsErr := &FilesystemError{Op: "write", Path: path, Err: err}
			e.logger.Error(ctx, "cannot write device config",
				"run_id", runID,
				"device_id", rec.ID,
				"file", path,
				"error", err.Error())
			if e.FailFast {
				result.Err = fsErr
				report.Results = append(report.Results, result)
				return report, fsErr
			}
			result.Err = fsErr
			report.Results = append(report.Results, result)
			continue
		}

		result.Path = path
		report.Results = append(report.Results, result)
		e.logger.Info(ctx, "device config file written",
			"run_id", runID,
			"device_id", rec.ID,
			"file", path)
	}
	for _, m := range malformed {
		report.Results = append(report.Results, e.malformedResult(ctx, runID, m))
	}

	e.logger.Info(ctx, "device config export finished",
		"run_id", runID,
		"succeeded", len(report.Succeeded()),
		"failed", len(report.Failed()))

	return report, nil
}

func (e *Exporter) malformedResult(ctx context.Context, runID string, m *MalformedRecordError) ExportResult {
	e.logger.Warn(ctx, "skipping malformed device record",
		"run_id", runID,
		"index", m.Index,
		"field", m.Field,
		"reason", m.Reason)
	return ExportResult{Index: m.Index, DeviceID: m.DeviceID, Err: m}
}
