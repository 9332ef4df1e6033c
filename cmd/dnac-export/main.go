// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Command dnac-export saves device running configurations and network
// health reports from a Catalyst Center controller.
//
// Usage:
//
//	export BASE_URL=https://10.10.20.85
//	export USERNAME=admin PASSWORD=secret SSL_CERTIFICATE=false
//	dnac-export export --domain lab1
//	dnac-export health
//
// A fatal error (controller unreachable, non-2xx status, bad configuration)
// exits with status 1. Devices that could not be exported are listed but
// do not change the exit status unless --fail-fast is set.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
