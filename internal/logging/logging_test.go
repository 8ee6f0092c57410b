package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{" WARN ", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"nonsense", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}
	for _, tc := range cases {
		if got := New(tc.in, false).GetLevel(); got != tc.want {
			t.Fatalf("level %q: expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := New("info", true).Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatal("expected JSON formatter")
	}
	if _, ok := New("info", false).Formatter.(*logrus.TextFormatter); !ok {
		t.Fatal("expected text formatter")
	}
}

func TestToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keel.log")
	log := New("info", true)
	closer, err := ToFile(log, path)
	if err != nil {
		t.Fatalf("to file: %v", err)
	}
	log.WithField("operation", "plan").Info("planned")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(raw), `"operation":"plan"`) {
		t.Fatalf("expected structured field in log, got %q", raw)
	}
}
