package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetKeepsLdflags(t *testing.T) {
	old := [3]string{Version, Commit, Date}
	t.Cleanup(func() { Version, Commit, Date = old[0], old[1], old[2] })
	Version, Commit, Date = "v1.2.3", "abc123", "2026-01-02T03:04:05Z"

	got := Get()
	want := Info{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-02T03:04:05Z", GoVersion: runtime.Version()}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestString(t *testing.T) {
	i := Get()
	s := String()
	for _, want := range []string{"lineageflow ", i.Version, i.Commit, i.Date, i.GoVersion} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
}
