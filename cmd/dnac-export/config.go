// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/netascode/go-dnac"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved CLI configuration
type Config struct {
	BaseURL   string
	Username  string
	Password  string
	Token     string
	VerifyTLS bool
	Domain    string
	OutputDir string
	HealthDir string
	FailFast  bool
	Timeout   time.Duration
	Report    string
}

// envNames maps config keys to environment variables, most specific first.
// The unprefixed names are kept for existing shell setups.
var envNames = map[string][]string{
	"base_url":        {"DNAC_BASE_URL", "BASE_URL"},
	"username":        {"DNAC_USERNAME", "USERNAME"},
	"password":        {"DNAC_PASSWORD", "PASSWORD"},
	"token":           {"DNAC_TOKEN"},
	"ssl_certificate": {"DNAC_SSL_CERTIFICATE", "SSL_CERTIFICATE"},
	"domain":          {"DNAC_DOMAIN", "DOMAIN"},
	"output_dir":      {"DNAC_OUTPUT_DIR"},
	"health_dir":      {"DNAC_HEALTH_DIR"},
	"fail_fast":       {"DNAC_FAIL_FAST"},
	"timeout":         {"DNAC_TIMEOUT"},
	"report":          {"DNAC_REPORT"},
	"logging.level":   {"DNAC_LOG_LEVEL"},
	"logging.format":  {"DNAC_LOG_FORMAT"},
}

// flagKeys maps flag names to config keys
var flagKeys = map[string]string{
	"base-url":        "base_url",
	"username":        "username",
	"password":        "password",
	"token":           "token",
	"ssl-certificate": "ssl_certificate",
	"domain":          "domain",
	"output-dir":      "output_dir",
	"health-dir":      "health_dir",
	"fail-fast":       "fail_fast",
	"timeout":         "timeout",
	"report":          "report",
	"log-level":       "logging.level",
	"log-format":      "logging.format",
}

// newViper returns a Viper instance with defaults and environment bindings.
func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("ssl_certificate", "true")
	v.SetDefault("output_dir", dnac.DefaultOutputDir)
	v.SetDefault("health_dir", "net_health")
	v.SetDefault("timeout", dnac.DefaultRequestTimeout)
	v.SetDefault("fail_fast", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	for key, names := range envNames {
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	return v
}

// addFlags registers the persistent CLI flags.
func addFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", "", "path to configuration file (yaml, json or toml)")
	flags.String("base-url", "", "controller base URL, e.g. https://10.10.20.85")
	flags.String("username", "", "controller username (used when no token is given)")
	flags.String("password", "", "controller password (used when no token is given)")
	flags.String("token", "", "bearer token; skips login")
	flags.String("ssl-certificate", "", "verify the controller TLS certificate (true/false, yes/no, on/off, 1/0)")
	flags.String("domain", "", "optional domain label, exports to <output-dir>/<domain>/<date>/")
	flags.String("output-dir", "", "root directory for exported configs")
	flags.String("health-dir", "", "directory for network health reports")
	flags.Bool("fail-fast", false, "abort the export on the first file that cannot be written")
	flags.Duration("timeout", 0, "per-request timeout")
	flags.String("report", "", "write a JSON export report to this file")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
}

// bindFlags binds flags to their config keys. Only flags set on the command
// line override other sources.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// loadConfig reads the optional config file and resolves Config.
func loadConfig(v *viper.Viper, configPath string) (Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	verify, err := dnac.ParseBool(v.GetString("ssl_certificate"))
	if err != nil {
		return Config{}, fmt.Errorf("ssl_certificate: %w", err)
	}

	cfg := Config{
		BaseURL:   strings.TrimSpace(v.GetString("base_url")),
		Username:  v.GetString("username"),
		Password:  v.GetString("password"),
		Token:     v.GetString("token"),
		VerifyTLS: verify,
		Domain:    v.GetString("domain"),
		OutputDir: v.GetString("output_dir"),
		HealthDir: v.GetString("health_dir"),
		FailFast:  v.GetBool("fail_fast"),
		Timeout:   v.GetDuration("timeout"),
		Report:    v.GetString("report"),
	}

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("base_url is required (flag --base-url or env BASE_URL)")
	}
	if cfg.Token == "" && (cfg.Username == "" || cfg.Password == "") {
		return Config{}, fmt.Errorf("either token or username and password are required")
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("timeout must be positive, got: %v", cfg.Timeout)
	}

	return cfg, nil
}
