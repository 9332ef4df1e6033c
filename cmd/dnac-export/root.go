// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/netascode/go-dnac"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	v         *viper.Viper
	newLogger func(*viper.Viper) (*zap.Logger, error)
	now       func() time.Time
}

func newApp() *app {
	return &app{
		v:         newViper(),
		newLogger: newLogger,
		now:       time.Now,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dnac-export",
		Short:         "Export device configurations and network health from Catalyst Center",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addFlags(root.PersistentFlags())

	root.AddCommand(a.exportCmd(), a.healthCmd())
	return root
}

// setup resolves configuration and the logger for a command run.
func (a *app) setup(cmd *cobra.Command) (Config, *zap.Logger, error) {
	if err := bindFlags(a.v, cmd.Flags()); err != nil {
		return Config{}, nil, err
	}
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := loadConfig(a.v, configPath)
	if err != nil {
		return Config{}, nil, err
	}

	logger, err := a.newLogger(a.v)
	if err != nil {
		return Config{}, nil, err
	}
	if configPath != "" {
		logger.Debug("configuration loaded", zap.String("source", configPath))
	}
	return cfg, logger, nil
}

// login returns the configured token or obtains one with username and password.
func login(ctx context.Context, cfg Config, logger dnac.Logger) (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	client, err := dnac.NewClient(cfg.BaseURL,
		dnac.Username(cfg.Username),
		dnac.Password(cfg.Password),
		dnac.VerifyCertificate(cfg.VerifyTLS),
		dnac.RequestTimeout(cfg.Timeout),
		dnac.WithLogger(logger),
	)
	if err != nil {
		return "", err
	}
	return client.Login(ctx)
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the running configuration of every device to <output-dir>",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			dl := dnac.NewZapLogger(logger)

			token, err := login(ctx, cfg, dl)
			if err != nil {
				return err
			}

			exp := dnac.NewExporter(
				dnac.OutputDir(cfg.OutputDir),
				dnac.FailFast(cfg.FailFast),
				dnac.ExportLogger(dl),
				dnac.WithClock(a.now),
				dnac.WithClientOptions(dnac.RequestTimeout(cfg.Timeout)),
			)
			report, err := exp.Export(ctx, dnac.ExportRequest{
				BaseURL:     cfg.BaseURL,
				Token:       token,
				VerifyTLS:   cfg.VerifyTLS,
				DomainLabel: cfg.Domain,
			})
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)

			if cfg.Report != "" {
				doc, err := report.JSON()
				if err != nil {
					return fmt.Errorf("render report: %w", err)
				}
				if err := os.WriteFile(cfg.Report, []byte(doc), 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				logger.Info("export report written", zap.String("file", cfg.Report))
			}
			return nil
		},
	}
}

// printReport lists every device so partial failures are visible.
func printReport(w io.Writer, report dnac.ExportReport) {
	for _, res := range report.Results {
		if res.OK() {
			fmt.Fprintf(w, "OK    %s -> %s\n", res.DeviceID, res.Path)
			continue
		}
		id := res.DeviceID
		if id == "" {
			id = fmt.Sprintf("#%d", res.Index)
		}
		fmt.Fprintf(w, "FAIL  %s: %v\n", id, res.Err)
	}
	fmt.Fprintf(w, "%d exported, %d failed\n", len(report.Succeeded()), len(report.Failed()))
}

func (a *app) healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Write the network health distribution to <health-dir>/<host>-<date>.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx := cmd.Context()
			dl := dnac.NewZapLogger(logger)

			token, err := login(ctx, cfg, dl)
			if err != nil {
				return err
			}
			client, err := dnac.NewClient(cfg.BaseURL,
				dnac.Token(token),
				dnac.VerifyCertificate(cfg.VerifyTLS),
				dnac.RequestTimeout(cfg.Timeout),
				dnac.WithLogger(dl),
				dnac.Clock(a.now),
			)
			if err != nil {
				return err
			}

			health, err := client.GetNetworkHealth(ctx)
			if err != nil {
				return err
			}

			u, err := url.Parse(client.BaseURL)
			if err != nil {
				return err
			}
			date := a.now().Format(dnac.DateLayout)
			doc, err := health.JSON(u.Host, date)
			if err != nil {
				return fmt.Errorf("render health report: %w", err)
			}

			if err := os.MkdirAll(cfg.HealthDir, 0o755); err != nil {
				return &dnac.FilesystemError{Op: "mkdir", Path: cfg.HealthDir, Err: err}
			}
			path := filepath.Join(cfg.HealthDir, u.Host+"-"+date+".json")
			if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
				return &dnac.FilesystemError{Op: "write", Path: path, Err: err}
			}

			out := cmd.OutOrStdout()
			for _, cat := range health.Categories {
				fmt.Fprintf(out, "%-12s score %3d%%  devices %d\n", cat.Category, cat.HealthScore, cat.TotalCount)
			}
			fmt.Fprintf(out, "Please check '%s'\n", path)
			return nil
		},
	}
}
