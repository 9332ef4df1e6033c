// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package dnac

import (
	"context"

	"go.uber.org/zap"
)

// ZapLogger adapts a *zap.Logger to the Logger interface.
//
// Key/value pairs are passed to zap's sugared logger, so they end up as
// structured fields in both the console and the JSON encoder.
//
// Example:
//
//	zl, _ := zap.NewProduction()
//	client, _ := dnac.NewClient(baseURL,
//	    dnac.Token(token),
//	    dnac.WithLogger(dnac.NewZapLogger(zl)))
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger wraps logger. A nil logger yields a no-op zap logger.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{sugar: logger.Sugar()}
}

func (z *ZapLogger) Debug(_ context.Context, msg string, keysAndValues ...any) {
	z.sugar.Debugw(msg, keysAndValues...)
}

func (z *ZapLogger) Info(_ context.Context, msg string, keysAndValues ...any) {
	z.sugar.Infow(msg, keysAndValues...)
}

func (z *ZapLogger) Warn(_ context.Context, msg string, keysAndValues ...any) {
	z.sugar.Warnw(msg, keysAndValues...)
}

func (z *ZapLogger) Error(_ context.Context, msg string, keysAndValues ...any) {
	z.sugar.Errorw(msg, keysAndValues...)
}
