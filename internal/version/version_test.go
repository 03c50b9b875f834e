package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Commit
	t.Cleanup(func() { Commit = old })

	Commit = "0123456789abcdef"
	if got := String(); !strings.Contains(got, "commit: 0123456,") {
		t.Errorf("expected a shortened commit, got %q", got)
	}

	Commit = "abc"
	if got := String(); !strings.HasPrefix(got, "taskboard dev (commit: abc,") {
		t.Errorf("unexpected version string %q", got)
	}
}

func TestGet(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "1.2.0", "feedfacecafe"
	info := Get()
	if info.Version != "1.2.0" || info.Commit != "feedfac" {
		t.Errorf("unexpected info %+v", info)
	}
	if got := String(); !strings.HasPrefix(got, "taskboard 1.2.0 (commit: feedfac,") {
		t.Errorf("unexpected version string %q", got)
	}
}
