package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewCarriesServiceName(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "hookline-api", "info", "json")

	log.Info("catch landed", "catch_id", "c1")

	var record map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if record["service"] != "hookline-api" {
		t.Errorf("expected service attribute, got %v", record["service"])
	}
	if record["catch_id"] != "c1" {
		t.Errorf("expected catch_id attribute, got %v", record["catch_id"])
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "hookline-api", "warn", "json")

	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info record emitted at warn level: %s", buf.String())
	}

	log.Warn("kept")
	if buf.Len() == 0 {
		t.Error("warn record was not emitted")
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "", "info", "text")

	log.Info("hello")
	if !bytes.Contains(buf.Bytes(), []byte("msg=hello")) {
		t.Errorf("expected text format, got %s", buf.String())
	}
}
