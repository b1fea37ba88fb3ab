package logger

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func newBufferLogger(level string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := NewWithWriter(buf, &Config{Level: level, Format: FormatJSON}, "test-svc")
	return l, buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Service() != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.Service())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: FormatJSON}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	if l := NewFromEnv("env-svc"); l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestJSONOutput_IncludesServiceAndFields(t *testing.T) {
	l, buf := newBufferLogger("info")
	l.Info("call finished", Fields(FieldPath, "user.byId", "attempt", 2))

	m := decodeLine(t, buf)
	if m["message"] != "call finished" {
		t.Errorf("unexpected message %v", m["message"])
	}
	if m[FieldService] != "test-svc" {
		t.Errorf("expected service field, got %v", m[FieldService])
	}
	if m[FieldPath] != "user.byId" {
		t.Errorf("expected path field, got %v", m[FieldPath])
	}
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger("warn")
	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected nothing below warn, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected warn entry")
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newBufferLogger("info")
	l.WithComponent("procedure").Info("x")
	if m := decodeLine(t, buf); m[FieldComponent] != "procedure" {
		t.Errorf("expected component field, got %v", m[FieldComponent])
	}
}

func TestWithContext(t *testing.T) {
	l, buf := newBufferLogger("info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithUserID(ctx, "user-7")
	l.WithContext(ctx).Info("x")

	m := decodeLine(t, buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request id, got %v", m[FieldRequestID])
	}
	if m[FieldUserID] != "user-7" {
		t.Errorf("expected user id, got %v", m[FieldUserID])
	}
	if RequestIDFromContext(ctx) != "req-1" {
		t.Error("expected RequestIDFromContext to round-trip")
	}
}

func TestWithContext_Empty(t *testing.T) {
	l, buf := newBufferLogger("info")
	l.WithContext(context.Background()).Info("x")
	if m := decodeLine(t, buf); m[FieldRequestID] != nil {
		t.Errorf("expected no request id, got %v", m[FieldRequestID])
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l, buf := newBufferLogger("info")
	l.WithFields(map[string]interface{}{"k": "v"}).WithError(errors.New("boom")).Error("failed")

	m := decodeLine(t, buf)
	if m["k"] != "v" {
		t.Errorf("expected k=v, got %v", m["k"])
	}
	if m[FieldError] != "boom" {
		t.Errorf("expected error=boom, got %v", m[FieldError])
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("discarded")
	l.WithComponent("x").Error("discarded")
}

func TestInit(t *testing.T) {
	defer SetGlobalLogger(nil)
	cfg := &Config{ServiceName: "init-svc", Format: FormatJSON}
	Init(cfg)
	if cfg.Level != "info" {
		t.Errorf("expected defaults applied, got level %q", cfg.Level)
	}
	if GetGlobalLogger().Service() != "init-svc" {
		t.Errorf("expected init-svc, got %q", GetGlobalLogger().Service())
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	SetGlobalLogger(nil)
	defer SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != FormatConsole || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp enabled")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid json", Config{Level: "debug", Format: FormatJSON}, false},
		{"valid console", Config{Level: "error", Format: FormatConsole}, false},
		{"bad level", Config{Level: "loud", Format: FormatJSON}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
		{"component level", Config{Level: "info", Format: FormatJSON, Components: map[string]string{"procedure": "debug"}}, false},
		{"bad component level", Config{Level: "info", Format: FormatJSON, Components: map[string]string{"ssg": "loud"}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("wantErr=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestConsoleFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewWithWriter(buf, &Config{Level: "info", Format: FormatConsole, NoColor: true}, "svc")
	l.Info("hello")
	if !strings.Contains(buf.String(), "[INF]") || !strings.Contains(buf.String(), "hello") {
		t.Errorf("unexpected console output %q", buf.String())
	}
}

func TestRegisterAndGet(t *testing.T) {
	t.Cleanup(func() { _ = registerLevels(nil, nil) })
	l := NewNop()
	Register("custom", l)
	if Get("custom") != l {
		t.Error("expected registered logger")
	}
	if Get("unregistered") == nil {
		t.Error("expected fallback logger")
	}
}

func TestComponentLevels(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() {
		SetGlobalLogger(prev)
		_ = registerLevels(nil, nil)
	})
	base, buf := newBufferLogger("info")
	SetGlobalLogger(base)

	if err := registerLevels(base, map[string]string{"procedure": "debug", "ssg": "error"}); err != nil {
		t.Fatalf("registerLevels: %v", err)
	}

	Get("procedure").Debug("chain detail")
	line := decodeLine(t, buf)
	if line["component"] != "procedure" || line["message"] != "chain detail" {
		t.Errorf("expected debug entry from procedure, got %v", line)
	}

	buf.Reset()
	Get("ssg").Warn("suppressed")
	Get("server").Debug("suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected entries below the component level to be dropped, got %q", buf.String())
	}

	Get("server").Info("started")
	if line := decodeLine(t, buf); line["component"] != "server" {
		t.Errorf("expected unregistered component to use the global logger, got %v", line)
	}

	if err := registerLevels(base, map[string]string{"procedure": "loud"}); err == nil {
		t.Error("expected an invalid level to be rejected")
	}
}

func TestInit_RegistersComponentLevels(t *testing.T) {
	t.Cleanup(func() {
		SetGlobalLogger(nil)
		_ = registerLevels(nil, nil)
	})
	Init(&Config{Level: "error", Format: FormatJSON, Components: map[string]string{"procedure": "debug", "bad": "loud"}})

	if Get("procedure").GetLogger().GetLevel() != zerolog.DebugLevel {
		t.Error("expected procedure to log at debug")
	}
	if Get("bad").GetLogger().GetLevel() != zerolog.ErrorLevel {
		t.Error("expected an invalid override to fall back to the global level")
	}
}

func TestFieldHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("unexpected fields %v", f)
	}
	ef := ErrorFields("call", errors.New("x"))
	if ef[FieldOperation] != "call" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields %v", ef)
	}
	df := DurationFields("call", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("unexpected duration %v", df[FieldDuration])
	}
}
