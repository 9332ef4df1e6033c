// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/netascode/go-dnac"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testNow = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

// controller fakes the auth, config and health endpoints
func controller(t *testing.T, configStatus int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case dnac.AuthTokenPath:
			user, pass, ok := r.BasicAuth()
			if !ok || user != "admin" || pass != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"Token":"tok"}`))
		case dnac.DeviceConfigPath:
			if r.Header.Get("X-Auth-Token") != "tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(configStatus)
			_, _ = w.Write([]byte(`{"response":[
				{"id":"SW1","runningConfig":"hostname SW1\n"},
				{"id":"SW2"}
			]}`))
		case dnac.NetworkHealthPath:
			if r.URL.Query().Get("timestamp") == "" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"response":[{"healthScore":80}],"healthDistirubution":[
				{"category":"Access","totalCount":4,"healthScore":100},
				{"category":"Core","totalCount":1,"healthScore":0}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testApp(t *testing.T) (*app, *observer.ObservedLogs) {
	t.Helper()
	clearEnv(t)
	core, logs := observer.New(zapcore.DebugLevel)
	return &app{
		v:         newViper(),
		newLogger: func(*viper.Viper) (*zap.Logger, error) { return zap.New(core), nil },
		now:       func() time.Time { return testNow },
	}, logs
}

func run(a *app, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := a.rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExportCommand(t *testing.T) {
	srv := controller(t, http.StatusOK)
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")
	a, logs := testApp(t)

	out, err := run(a, "export",
		"--base-url", srv.URL,
		"--username", "admin",
		"--password", "secret",
		"--domain", "lab1",
		"--output-dir", filepath.Join(dir, "configs"),
		"--report", report,
	)
	if err != nil {
		t.Fatalf("export: %v\n%s", err, out)
	}

	path := filepath.Join(dir, "configs", "lab1", "2024-01-01", "SW1_2024-01-01.txt")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if string(b) != "hostname SW1" {
		t.Errorf("content = %q", b)
	}

	for _, want := range []string{"OK    SW1 -> " + path, "FAIL  SW2:", "1 exported, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	doc, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if gjson.GetBytes(doc, "succeeded").Int() != 1 || gjson.GetBytes(doc, "failed").Int() != 1 {
		t.Errorf("report = %s", doc)
	}

	if logs.FilterMessage("controller login succeeded").Len() != 1 {
		t.Error("expected login log entry")
	}
	if logs.FilterMessage("skipping malformed device record").Len() != 1 {
		t.Error("expected malformed record warning")
	}
}

func TestExportCommand_Token(t *testing.T) {
	srv := controller(t, http.StatusOK)
	dir := t.TempDir()
	a, logs := testApp(t)
	t.Setenv("DNAC_TOKEN", "tok")
	t.Setenv("BASE_URL", srv.URL)

	if _, err := run(a, "export", "--output-dir", dir); err != nil {
		t.Fatalf("export: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "SW1_2024-01-01.txt")); err != nil {
		t.Errorf("flat layout file missing: %v", err)
	}
	if logs.FilterMessage("controller login succeeded").Len() != 0 {
		t.Error("token run should not log in")
	}
}

func TestExportCommand_Fatal(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "controller error",
			args: []string{"--token", "tok"},
			want: "500 Internal Server Error",
		},
		{
			name: "bad credentials",
			args: []string{"--username", "admin", "--password", "wrong"},
			want: "401 Unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := controller(t, http.StatusInternalServerError)
			dir := filepath.Join(t.TempDir(), "configs")
			a, _ := testApp(t)

			args := append([]string{"export", "--base-url", srv.URL, "--output-dir", dir}, tt.args...)
			_, err := run(a, args...)
			if !dnac.IsRemoteRequestError(err) {
				t.Fatalf("error = %v, want *RemoteRequestError", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
			if _, err := os.Stat(dir); !os.IsNotExist(err) {
				t.Error("no output directory should be created")
			}
		})
	}
}

func TestExportCommand_ConfigError(t *testing.T) {
	a, _ := testApp(t)

	_, err := run(a, "export", "--token", "tok")
	if err == nil || !strings.Contains(err.Error(), "base_url is required") {
		t.Fatalf("error = %v", err)
	}
}

func TestHealthCommand(t *testing.T) {
	srv := controller(t, http.StatusOK)
	dir := t.TempDir()
	a, _ := testApp(t)

	out, err := run(a, "health", "--base-url", srv.URL, "--token", "tok", "--health-dir", dir)
	if err != nil {
		t.Fatalf("health: %v\n%s", err, out)
	}

	u, _ := url.Parse(srv.URL)
	path := filepath.Join(dir, u.Host+"-2024-01-01.json")
	doc, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if gjson.GetBytes(doc, "categories.#").Int() != 2 {
		t.Errorf("report = %s", doc)
	}
	if gjson.GetBytes(doc, "timestamp").Int() != testNow.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", gjson.GetBytes(doc, "timestamp").Int(), testNow.UnixMilli())
	}
	if !strings.Contains(out, "Please check '"+path+"'") {
		t.Errorf("output = %s", out)
	}
	if !strings.Contains(out, "Access") || !strings.Contains(out, "Core") {
		t.Errorf("output should list categories: %s", out)
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, dnac.ExportReport{Results: []dnac.ExportResult{
		{Index: 0, DeviceID: "SW1", Path: "configs/SW1_2024-01-01.txt"},
		{Index: 1, Err: &dnac.MalformedRecordError{Index: 1, Field: "id", Reason: "is missing or not a string"}},
	}})

	want := "OK    SW1 -> configs/SW1_2024-01-01.txt\n" +
		"FAIL  #1: dnac: malformed record 1: field \"id\" is missing or not a string\n" +
		"1 exported, 1 failed\n"
	if buf.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", buf.String(), want)
	}
}
