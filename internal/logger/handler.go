package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type logFormat string

const (
	formatJSON logFormat = "json"
	formatKV   logFormat = "kv"

	timeFormatMillis = "2006-01-02T15:04:05.000Z07:00"
)

// defaultKeyOrder pins the leading keys of every log line so that lines from
// different components stay visually comparable.
var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"update_id",
	"user_id",
	"chat_id",
	"handler",
	"outcome",
	"duration_ms",
	"city",
	"lang",
	"pending",
	"menu",
	"cb_key",
	"payload",
	"mode",
	"listen",
	"public_url",
	"http_code",
	"db",
	"host",
	"port",
	"reminders",
	"notified",
	"err",
	"err_kind",
	"attempts",
}

// syncWriter serializes line writes across one or more sinks.
type syncWriter struct {
	mu    sync.Mutex
	sinks []io.Writer
}

func newSyncWriter(sinks []io.Writer) *syncWriter {
	out := make([]io.Writer, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return &syncWriter{sinks: out}
}

func (w *syncWriter) Write(p []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range w.sinks {
		if _, err := s.Write(p); err != nil {
			return err
		}
	}
	return nil
}

type handlerConfig struct {
	level    slog.Leveler
	writer   *syncWriter
	format   logFormat
	keyOrder []string
}

type structuredHandler struct {
	cfg   handlerConfig
	attrs []slog.Attr
}

func newStructuredHandler(cfg handlerConfig) *structuredHandler {
	if cfg.level == nil {
		cfg.level = slog.LevelInfo
	}
	if cfg.keyOrder == nil {
		cfg.keyOrder = append([]string(nil), defaultKeyOrder...)
	}
	return &structuredHandler{cfg: cfg}
}

// Enabled reports whether the handler allows processing the provided level.
func (h *structuredHandler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.cfg.level != nil {
		min = h.cfg.level.Level()
	}
	return level >= min
}

// Handle formats the slog.Record and writes it using the configured writer.
func (h *structuredHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg.writer == nil {
		return fmt.Errorf("logger: writer not initialized")
	}

	fields := make(map[string]any, 16)
	ts := r.Time.UTC()
	fields["ts"] = ts.Truncate(time.Millisecond).Format(timeFormatMillis)
	fields["level"] = strings.ToUpper(r.Level.String())

	for _, a := range h.attrs {
		collectAttr(fields, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collectAttr(fields, a)
		return true
	})

	addContextFields(ctx, fields)

	if event, ok := fields["event"].(string); !ok || event == "" {
		if r.Message != "" {
			fields["event"] = r.Message
		} else {
			fields["event"] = "unknown"
		}
	}
	if component, ok := fields["component"].(string); !ok || component == "" {
		fields["component"] = "app"
	}

	pruneEmpty(fields)

	var (
		line []byte
		err  error
	)
	if h.cfg.format == formatJSON {
		line, err = h.formatJSON(fields)
	} else {
		line, err = h.formatKV(fields)
	}
	if err != nil {
		return err
	}
	line = append(line, '\n')
	return h.cfg.writer.Write(line)
}

// WithAttrs returns a shallow copy of the handler enriched with attrs.
func (h *structuredHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup flattens groups; key ordering makes grouping redundant here.
func (h *structuredHandler) WithGroup(string) slog.Handler {
	return h
}

func collectAttr(fields map[string]any, a slog.Attr) {
	if a.Key == "" {
		return
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		for _, ga := range v.Group() {
			collectAttr(fields, ga)
		}
	case slog.KindDuration:
		fields[a.Key] = v.Duration().Round(time.Millisecond).Milliseconds()
		if !strings.HasSuffix(a.Key, "_ms") {
			delete(fields, a.Key)
			fields[a.Key+"_ms"] = v.Duration().Round(time.Millisecond).Milliseconds()
		}
	case slog.KindTime:
		fields[a.Key] = v.Time().UTC().Format(timeFormatMillis)
	default:
		fields[a.Key] = v.Any()
	}
}

func addContextFields(ctx context.Context, fields map[string]any) {
	if ctx == nil {
		return
	}
	if rid := RIDFrom(ctx); rid != "" {
		if _, seen := fields["rid"]; !seen {
			fields["rid"] = rid
		}
	}
	if id := UpdateIDFrom(ctx); id != 0 {
		if _, seen := fields["update_id"]; !seen {
			fields["update_id"] = id
		}
	}
	if id := UserIDFrom(ctx); id != 0 {
		if _, seen := fields["user_id"]; !seen {
			fields["user_id"] = id
		}
	}
	if id := ChatIDFrom(ctx); id != 0 {
		if _, seen := fields["chat_id"]; !seen {
			fields["chat_id"] = id
		}
	}
	if handler := HandlerFrom(ctx); handler != "" {
		if _, seen := fields["handler"]; !seen {
			fields["handler"] = handler
		}
	}
}

func pruneEmpty(fields map[string]any) {
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" {
			delete(fields, k)
		}
	}
}

func (h *structuredHandler) orderedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, k := range h.cfg.keyOrder {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
			seen[k] = struct{}{}
		}
	}
	rest := make([]string, 0, len(fields))
	for k := range fields {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func (h *structuredHandler) formatKV(fields map[string]any) ([]byte, error) {
	var b strings.Builder
	for i, k := range h.orderedKeys(fields) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(kvValue(fields[k]))
	}
	return []byte(b.String()), nil
}

func (h *structuredHandler) formatJSON(fields map[string]any) ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range h.orderedKeys(fields) {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(jsonValue(fields[k]))
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func kvValue(v any) string {
	switch t := v.(type) {
	case string:
		if strings.ContainsAny(t, " \t\"=") {
			return strconv.Quote(Sanitize(t))
		}
		return Sanitize(t)
	case error:
		return strconv.Quote(Sanitize(t.Error()))
	default:
		return fmt.Sprintf("%v", t)
	}
}

func jsonValue(v any) any {
	switch t := v.(type) {
	case string:
		return Sanitize(t)
	case error:
		return Sanitize(t.Error())
	default:
		return t
	}
}
