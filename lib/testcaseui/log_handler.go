// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg delivers a slog record to the model for display in the
// status bar.
type logRecordMsg struct {
	// Summary is the one-line status bar text.
	Summary string

	// Structured is the JSON-encoded record, shown when the notice is
	// expanded.
	Structured string

	Level slog.Level
}

// noticeFadeMsg clears the notice with the matching sequence number.
// Newer notices bump the sequence, so an old fade cannot clear them.
type noticeFadeMsg struct {
	sequence int
}

// noticeFadeDelay is how long a notice stays in the status bar.
const noticeFadeDelay = 5 * time.Second

// Sender delivers messages into a running program. *tea.Program
// satisfies it.
type Sender interface {
	Send(message tea.Msg)
}

// TUILogHandler is a slog.Handler that turns records into status bar
// notices. Records below the configured level are dropped. This is how
// result fetch failures (error level) and refused mutations (warn
// level) reach the user, while option fetch failures (debug level)
// stay silent.
//
// Records arriving before SetSender are dropped. Handlers derived via
// WithAttrs/WithGroup share the sender, so one SetSender call reaches
// all of them.
type TUILogHandler struct {
	level  slog.Leveler
	sender *atomic.Pointer[Sender]
	attrs  []slog.Attr
	groups []string
}

// NewTUILogHandler creates a handler that delivers records at or above
// level.
func NewTUILogHandler(level slog.Leveler) *TUILogHandler {
	return &TUILogHandler{
		level:  level,
		sender: &atomic.Pointer[Sender]{},
	}
}

// SetSender sets the program that receives notices. Safe to call from
// any goroutine.
func (handler *TUILogHandler) SetSender(sender Sender) {
	handler.sender.Store(&sender)
}

// Enabled reports whether the handler is interested in records at the
// given level.
func (handler *TUILogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle formats the record as "message (key=value, ...)" and sends it
// without waiting for delivery. Notices from concurrent records may
// arrive out of order.
func (handler *TUILogHandler) Handle(_ context.Context, record slog.Record) error {
	sender := handler.sender.Load()
	if sender == nil {
		return nil
	}

	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, fmt.Sprintf("%s=%s", handler.qualify(attr.Key), attr.Value))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}

	message := logRecordMsg{
		Summary:    summary,
		Structured: handler.structured(record),
		Level:      record.Level,
	}
	// Send blocks until the event loop reads the message, and records
	// are often logged from inside Update on that same loop.
	go (*sender).Send(message)
	return nil
}

// WithAttrs returns a handler with attrs appended. Keys are qualified
// by the groups open at this point.
func (handler *TUILogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	combined := cloneSlice(handler.attrs)
	for _, attr := range attrs {
		combined = append(combined, slog.Attr{Key: handler.qualify(attr.Key), Value: attr.Value})
	}
	return &TUILogHandler{
		level:  handler.level,
		sender: handler.sender,
		attrs:  combined,
		groups: cloneSlice(handler.groups),
	}
}

// WithGroup returns a handler whose attribute keys are prefixed with
// name.
func (handler *TUILogHandler) WithGroup(name string) slog.Handler {
	return &TUILogHandler{
		level:  handler.level,
		sender: handler.sender,
		attrs:  cloneSlice(handler.attrs),
		groups: append(cloneSlice(handler.groups), name),
	}
}

func (handler *TUILogHandler) qualify(key string) string {
	if len(handler.groups) == 0 {
		return key
	}
	return strings.Join(handler.groups, ".") + "." + key
}

func (handler *TUILogHandler) structured(record slog.Record) string {
	fields := map[string]any{
		"time":  record.Time.Format(time.RFC3339),
		"level": record.Level.String(),
		"msg":   record.Message,
	}
	for _, attr := range handler.attrs {
		fields[attr.Key] = attr.Value.String()
	}
	record.Attrs(func(attr slog.Attr) bool {
		fields[handler.qualify(attr.Key)] = attr.Value.String()
		return true
	})

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Sprintf(`{"msg":%q,"error":"marshal failed"}`, record.Message)
	}
	return string(data)
}

func cloneSlice[T any](source []T) []T {
	if source == nil {
		return nil
	}
	return append(make([]T, 0, len(source)), source...)
}
