package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	temp := 21.5
	want := Default()
	want.Probe.Kind = "orp"
	want.Probe.Transport = "embd"
	want.Probe.Bus = "1"
	want.Probe.Addr = 0x40
	want.Probe.Temperature = &temp
	want.Poll.Interval = 500 * time.Millisecond
	want.Monitor.Enabled = true

	got, err := Parse([]byte(`
probe:
  kind: orp
  transport: embd
  bus: "1"
  addr: 0x40
  temperature: 21.5
poll:
  interval: 500ms
monitor:
  enabled: true
`))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	got, err := Parse(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{
		"probe:\n  transport: usb\n",
		"poll:\n  interval: 0s\n",
		"probe: [",
	} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iseprobe.yaml")
	if err := os.WriteFile(path, []byte("probe:\n  kind: mv\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Probe.Kind != "mv" {
		t.Errorf("kind = %q, want mv", c.Probe.Kind)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "could not read") {
		t.Errorf("Load(missing) error = %v", err)
	}
}
