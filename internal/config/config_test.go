package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	result, err := Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	def := Default()
	if !reflect.DeepEqual(result, def) {
		t.Errorf("expected defaults for missing file, got %+v", result)
	}
}

func TestLoadValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := map[string]interface{}{
		"host": "127.0.0.1",
		"port": 2323,
		"term": "xterm-256color",
	}
	data, _ := json.Marshal(cfg)
	path := filepath.Join(tmpDir, "config.json")
	os.WriteFile(path, data, 0644)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Host != "127.0.0.1" {
		t.Errorf("expected host 127.0.0.1, got %s", result.Host)
	}
	if result.Port != 2323 {
		t.Errorf("expected port 2323, got %d", result.Port)
	}
	if result.Term != "xterm-256color" {
		t.Errorf("expected term xterm-256color, got %s", result.Term)
	}
}

func TestLoadPartialOverlayPreservesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := map[string]interface{}{
		"port": 9999,
	}
	data, _ := json.Marshal(cfg)
	path := filepath.Join(tmpDir, "config.json")
	os.WriteFile(path, data, 0644)

	result, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Port != 9999 {
		t.Errorf("expected port 9999, got %d", result.Port)
	}
	if result.EncodingErrors != "strict" {
		t.Errorf("expected default encoding_errors strict to be preserved, got %s", result.EncodingErrors)
	}
	if result.ConnectMaxWait != 15.0 {
		t.Errorf("expected default connect_maxwait 15.0 to be preserved, got %v", result.ConnectMaxWait)
	}
	if result.Cols != 80 || result.Rows != 24 {
		t.Errorf("expected default cols/rows 80/24 to be preserved, got %d/%d", result.Cols, result.Rows)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.json")
	os.WriteFile(path, []byte("not json"), 0644)

	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestDefaultSendEnvironIncludesLang(t *testing.T) {
	def := Default()
	if len(def.SendEnviron) != 1 || def.SendEnviron[0] != "LANG" {
		t.Errorf("expected default send_environ [LANG], got %v", def.SendEnviron)
	}
}

func TestConnectWaitDurationConversions(t *testing.T) {
	cfg := Config{ConnectMinWait: 2.5, ConnectMaxWait: 15.0}
	if got := cfg.ConnectMinWaitDuration(); got != 2500*time.Millisecond {
		t.Errorf("expected 2.5s, got %v", got)
	}
	if got := cfg.ConnectMaxWaitDuration(); got != 15*time.Second {
		t.Errorf("expected 15s, got %v", got)
	}
}
