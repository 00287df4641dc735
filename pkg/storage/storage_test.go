package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	lferrors "github.com/matzehuels/lineageflow/pkg/errors"
)

// exercise runs the common Store contract against st.
func exercise(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	if _, found, err := st.Get(ctx, "data-lineage-flow"); err != nil || found {
		t.Fatalf("Get(absent) = found %v, err %v", found, err)
	}
	if err := st.Set(ctx, "data-lineage-flow", []byte(`{"nodes":[],"edges":[]}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Set(ctx, "data-lineage-flow", []byte(`{"nodes":[1],"edges":[]}`)); err != nil {
		t.Fatalf("Set (overwrite): %v", err)
	}
	data, found, err := st.Get(ctx, "data-lineage-flow")
	if err != nil || !found {
		t.Fatalf("Get = found %v, err %v", found, err)
	}
	if string(data) != `{"nodes":[1],"edges":[]}` {
		t.Errorf("Get = %s", data)
	}
	if err := st.Delete(ctx, "data-lineage-flow"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := st.Delete(ctx, "data-lineage-flow"); err != nil {
		t.Errorf("Delete(absent): %v", err)
	}
	if _, found, _ := st.Get(ctx, "data-lineage-flow"); found {
		t.Error("deleted key still found")
	}
	if err := st.Set(ctx, "../escape", []byte("x")); !lferrors.Is(err, lferrors.ErrCodeInvalidInput) {
		t.Errorf("Set(../escape) = %v, want INVALID_INPUT", err)
	}
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	v := []byte("abc")
	_ = m.Set(ctx, "k", v)
	v[0] = 'X'
	got, _, _ := m.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("stored value aliased caller slice: %s", got)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	exercise(t, f)

	ctx := context.Background()
	_ = f.Set(ctx, "data-lineage-flow", []byte("{}"))
	if _, err := os.Stat(filepath.Join(dir, "data-lineage-flow.json")); err != nil {
		t.Errorf("expected file on disk: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (no temp files left)", len(entries))
	}
}

func TestDefaultDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	dir, err := DefaultDataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "lineageflow") {
		t.Errorf("DefaultDataDir() = %q", dir)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"data-lineage-flow", false},
		{"project.v2", false},
		{"", true},
		{"a/b", true},
		{`a\b`, true},
		{"..", true},
	}
	for _, tt := range tests {
		if err := ValidateKey(tt.key); (err != nil) != tt.wantErr {
			t.Errorf("ValidateKey(%q) = %v, wantErr %v", tt.key, err, tt.wantErr)
		}
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := RetryDelay
	RetryDelay = time.Millisecond
	defer func() { RetryDelay = old }()

	ctx := context.Background()
	errDown := errors.New("connection refused")

	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errDown)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry: err=%v calls=%d, want nil and 2", err, calls)
	}

	calls = 0
	permanent := errors.New("bad key")
	if err := RetryWithBackoff(ctx, func() error { calls++; return permanent }); err != permanent || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(errDown) })
	if !errors.Is(err, errDown) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}

	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

func TestRetryWithBackoff_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(errors.New("down")) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
