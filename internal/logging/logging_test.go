package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/theirongolddev/orgchart/internal/config"

	"github.com/sirupsen/logrus"
)

func TestNew_LevelAndText(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)

	log.Info("hidden")
	log.WithField("node", "2").Warn("removed subtree")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "removed subtree") || !strings.Contains(out, "node=2") {
		t.Fatalf("warn line missing fields: %q", out)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(config.LoggingConfig{Level: "debug", Format: "JSON"}, &buf)

	log.WithField("count", 3).Debug("saved chart")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "saved chart" {
		t.Fatalf("msg = %v, want saved chart", entry["msg"])
	}
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := New(config.LoggingConfig{Level: "chatty"}, &bytes.Buffer{})
	if log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info", log.GetLevel())
	}
}
