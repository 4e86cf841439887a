// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"
	"sync"

	"github.com/web-enterprise-24/backend/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Access Log Attributes

// LogAttrs collects attributes that handlers deeper in the chain want on the
// final access log line, such as the authenticated user.
type LogAttrs struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

// WithLogAttrs attaches an empty attribute bag to ctx and returns both.
func WithLogAttrs(ctx context.Context) (context.Context, *LogAttrs) {
	bag := &LogAttrs{}
	return context.WithValue(ctx, ctxkey.KeyLogAttrs, bag), bag
}

// AddLogAttrs appends attrs to the bag in ctx. It is a no-op without a bag.
func AddLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	bag, ok := ctx.Value(ctxkey.KeyLogAttrs).(*LogAttrs)
	if !ok {
		return
	}
	bag.mu.Lock()
	bag.attrs = append(bag.attrs, attrs...)
	bag.mu.Unlock()
}

// Attrs returns a copy of the collected attributes.
func (bag *LogAttrs) Attrs() []slog.Attr {
	bag.mu.Lock()
	defer bag.mu.Unlock()
	return append([]slog.Attr(nil), bag.attrs...)
}
