package version

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/kbukum/augment/version"
)

func TestVersionLine(t *testing.T) {
	orig := version.Version
	defer func() { version.Version = orig }()
	version.Version = "1.2.0"

	var out bytes.Buffer
	cmd := NewCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "augment 1.2.0") {
		t.Errorf("unexpected output %q", out.String())
	}
	if strings.Count(out.String(), "\n") != 1 {
		t.Errorf("expected exactly one line, got %q", out.String())
	}
}

func TestVersionJSON(t *testing.T) {
	var out bytes.Buffer
	cmd := NewCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid json %q: %v", out.String(), err)
	}
	for _, key := range []string{"version", "go_version", "platform"} {
		if _, ok := got[key]; !ok {
			t.Errorf("missing key %q in %v", key, got)
		}
	}
}
