// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/fanout/internal/color"
	"golang.org/x/term"
)

var (
	// ErrMarshalAttribute is returned when an error occurs while marshaling an attribute.
	ErrMarshalAttribute = errors.New("error when marshaling attribute")
	// ErrIoWrite is returned when an error occurs while writing to the output.
	ErrIoWrite = errors.New("error when writing to output")
)

// TimeFormat is the format used for timestamps in log messages.
const TimeFormat = "[15:04:05.000]"

const attrIndent = 2

// levelColours maps the upper bound of a level range to its colour.
var levelColours = []struct {
	upTo slog.Level
	code color.Code
}{
	{slog.LevelDebug, color.FgWhite},
	{slog.LevelInfo, color.FgCyan},
	{slog.LevelWarn - 1, color.FgBlue},
	{slog.LevelError - 1, color.FgYellow},
	{slog.LevelError + 1, color.FgRed},
}

func newAttrFormatter(colour bool) *colorjson.Formatter {
	f := colorjson.NewFormatter()
	f.Indent = attrIndent
	f.DisabledColor = !colour || !term.IsTerminal(int(os.Stderr.Fd()))

	return f
}

// output is shared by a handler and every handler derived from it.
// The inner JSON handler writes to buf, so buf and the destination are both guarded by mu.
type output struct {
	mu  sync.Mutex
	buf bytes.Buffer
	w   io.Writer
}

// PrettyHandler is a slog handler that renders a record as one human readable entry:
// timestamp, level and message, followed by the attributes pretty printed as JSON.
// The attributes, including groups and those added by WithAttrs, are produced by an
// inner slog.JSONHandler so that they follow the standard slog semantics.
type PrettyHandler struct {
	inner            slog.Handler
	out              *output
	replace          func([]string, slog.Attr) slog.Attr
	colour           bool
	outputEmptyAttrs bool
	formatter        *colorjson.Formatter
}

// NewPrettyHandler creates a new PrettyHandler with the given options.
// Without WithDestinationWriter it writes to stderr.
func NewPrettyHandler(handlerOptions *slog.HandlerOptions, options ...Option) *PrettyHandler {
	if handlerOptions == nil {
		handlerOptions = &slog.HandlerOptions{}
	}

	out := &output{w: os.Stderr}
	h := &PrettyHandler{
		out: out,
		inner: slog.NewJSONHandler(&out.buf, &slog.HandlerOptions{
			Level:       handlerOptions.Level,
			AddSource:   handlerOptions.AddSource,
			ReplaceAttr: suppressDefaults(handlerOptions.ReplaceAttr),
		}),
		replace: handlerOptions.ReplaceAttr,
	}

	for _, opt := range options {
		opt(h)
	}

	h.formatter = newAttrFormatter(h.colour)

	return h
}

// Enabled checks if the handler is enabled for the given level.
func (h *PrettyHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// WithAttrs creates a new handler with the given attributes.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(h.inner.WithAttrs(attrs))
}

// WithGroup creates a new handler with the given group name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return h.derive(h.inner.WithGroup(name))
}

func (h *PrettyHandler) derive(inner slog.Handler) *PrettyHandler {
	c := *h
	c.inner = inner

	return &c
}

// Handle implements the slog.Handler interface for PrettyHandler.
func (h *PrettyHandler) Handle(ctx context.Context, r slog.Record) error {
	var line strings.Builder

	if ts, ok := h.replaced(slog.TimeKey, slog.StringValue(r.Time.Format(TimeFormat))); ok {
		line.WriteString(h.paint(ts, color.FgWhite))
		line.WriteByte(' ')
	}

	if lvl, ok := h.replaced(slog.LevelKey, slog.AnyValue(r.Level)); ok {
		line.WriteString(h.paint(lvl+":", levelColour(r.Level)))
		line.WriteByte(' ')
	}

	if msg, ok := h.replaced(slog.MessageKey, slog.StringValue(r.Message)); ok {
		line.WriteString(h.paint(msg, color.FgHiWhite))
		line.WriteByte(' ')
	}

	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	attrs, err := h.attrs(ctx, r)
	if err != nil {
		return err
	}

	line.Write(attrs)
	line.WriteByte('\n')

	if _, err := io.WriteString(h.out.w, line.String()); err != nil {
		return errors.Join(ErrIoWrite, err)
	}

	return nil
}

// attrs renders the record attributes. The caller must hold h.out.mu.
func (h *PrettyHandler) attrs(ctx context.Context, r slog.Record) ([]byte, error) {
	defer h.out.buf.Reset()

	if err := h.inner.Handle(ctx, r); err != nil {
		return nil, fmt.Errorf("error when calling inner handler's Handle: %w", err)
	}

	var attrs map[string]any
	if err := json.Unmarshal(h.out.buf.Bytes(), &attrs); err != nil {
		return nil, fmt.Errorf("error when unmarshaling inner handler's Handle result: %w", err)
	}

	if len(attrs) == 0 && !h.outputEmptyAttrs {
		return nil, nil
	}

	b, err := h.formatter.Marshal(attrs)
	if err != nil {
		return nil, errors.Join(ErrMarshalAttribute, err)
	}

	return b, nil
}

// replaced applies the ReplaceAttr option to a built-in attribute.
// It returns false when the attribute was removed.
func (h *PrettyHandler) replaced(key string, v slog.Value) (string, bool) {
	a := slog.Attr{Key: key, Value: v}
	if h.replace != nil {
		a = h.replace(nil, a)
	}

	if a.Equal(slog.Attr{}) {
		return "", false
	}

	return a.Value.String(), true
}

func (h *PrettyHandler) paint(s string, code color.Code) string {
	if !h.colour {
		return s
	}

	return color.Colorize(s, code)
}

func levelColour(l slog.Level) color.Code {
	for _, lc := range levelColours {
		if l <= lc.upTo {
			return lc.code
		}
	}

	return color.FgHiMagenta
}

// suppressDefaults removes the built-in attributes from the inner handler's output,
// they are rendered by PrettyHandler itself.
func suppressDefaults(next func([]string, slog.Attr) slog.Attr) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey) {
			return slog.Attr{}
		}

		if next == nil {
			return a
		}

		return next(groups, a)
	}
}

// Option implements a functional options pattern for PrettyHandler.
type Option func(h *PrettyHandler)

// WithDestinationWriter sets the destination writer for the PrettyHandler.
func WithDestinationWriter(writer io.Writer) Option {
	return func(h *PrettyHandler) {
		h.out.w = writer
	}
}

// WithColour enables color output for the PrettyHandler.
func WithColour() Option {
	return func(h *PrettyHandler) {
		h.colour = true
	}
}

// WithAutoColour enables color output when the color package has it enabled.
func WithAutoColour() Option {
	return func(h *PrettyHandler) {
		h.colour = color.Enabled()
	}
}

// WithOutputEmptyAttrs renders an empty JSON object for records without attributes.
func WithOutputEmptyAttrs() Option {
	return func(h *PrettyHandler) {
		h.outputEmptyAttrs = true
	}
}
