package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStore(t *testing.T) {
	st, err := New(":memory:")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if _, found, err := st.Get(ctx, "data-lineage-flow"); err != nil || found {
		t.Fatalf("Get(absent) = %v, %v", found, err)
	}
	if err := st.Set(ctx, "data-lineage-flow", []byte(`{"nodes":[],"edges":[]}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := st.Set(ctx, "data-lineage-flow", []byte(`{"nodes":[{}],"edges":[]}`)); err != nil {
		t.Fatalf("Set (upsert): %v", err)
	}
	data, found, err := st.Get(ctx, "data-lineage-flow")
	if err != nil || !found || string(data) != `{"nodes":[{}],"edges":[]}` {
		t.Fatalf("Get = %s, %v, %v", data, found, err)
	}
	if err := st.Delete(ctx, "data-lineage-flow"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := st.Get(ctx, "data-lineage-flow"); found {
		t.Error("deleted key still present")
	}
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lineage.db")
	ctx := context.Background()

	st, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if data, found, _ := st.Get(ctx, "k"); !found || string(data) != "v" {
		t.Errorf("reopened Get = %q, %v", data, found)
	}
}
