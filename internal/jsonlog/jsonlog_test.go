package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) entry {
	t.Helper()
	var e entry
	if err := json.NewDecoder(buf).Decode(&e); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestJSONLogger(t *testing.T) {
	t.Run("INFO Level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintInfo("starting server", map[string]string{"addr": ":4000", "env": "development"})
		e := decodeLine(t, &buf)
		if e.Level != "INFO" || e.Message != "starting server" {
			t.Errorf("unexpected entry %+v", e)
		}
		if e.Properties["addr"] != ":4000" {
			t.Errorf("expected addr property; got %v", e.Properties)
		}
		if e.Trace != "" {
			t.Error("expected no trace at INFO level")
		}
	})

	t.Run("ERROR Level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintError(errors.New("database unreachable"), nil)
		e := decodeLine(t, &buf)
		if e.Level != "ERROR" || e.Message != "database unreachable" {
			t.Errorf("unexpected entry %+v", e)
		}
		if e.Trace == "" {
			t.Error("expected a stack trace at ERROR level")
		}
	})

	t.Run("Below minimum level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelError)
		l.PrintInfo("ignored", nil)
		l.PrintWarn("ignored", nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output; got %q", buf.String())
		}
	})

	t.Run("Off", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelOff)
		l.PrintFatal(errors.New("ignored"), nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output; got %q", buf.String())
		}
	})

	t.Run("io.Writer", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		if _, err := l.Write([]byte("http: TLS handshake error\n")); err != nil {
			t.Fatal(err)
		}
		e := decodeLine(t, &buf)
		if e.Level != "ERROR" || e.Message != "http: TLS handshake error" {
			t.Errorf("unexpected entry %+v", e)
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{"": LevelInfo, "INFO": LevelInfo, "warn": LevelWarn, "error": LevelError, "fatal": LevelFatal, "off": LevelOff}
	for name, want := range tests {
		got, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseLevel(%q) = %s; want %s", name, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
