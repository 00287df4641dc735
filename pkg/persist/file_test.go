package persist

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/lineageflow/pkg/errors"
)

func TestExportImport(t *testing.T) {
	g := sampleGraph()
	var buf bytes.Buffer
	if err := Export(&buf, g); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "{\n  \"nodes\": [\n    {\n      \"id\": \"1\"") {
		t.Errorf("export is not two-space indented:\n%s", buf.String())
	}

	got, err := Import(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !reflect.DeepEqual(got, g) {
		t.Errorf("import mismatch:\n got %+v\nwant %+v", got, g)
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ExportFilename)
	if err := ExportFile(path, sampleGraph()); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	g, err := ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 2 {
		t.Errorf("imported %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
}

func TestImportFile_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"foo": 1}`), 0644)

	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"wrong extension", filepath.Join(dir, "graph.yaml"), errors.ErrCodeInvalidPath},
		{"missing", filepath.Join(dir, "nope.json"), errors.ErrCodeFileNotFound},
		{"schema", bad, errors.ErrCodeSchemaViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportFile(context.Background(), tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("ImportFile error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestImport_TooLarge(t *testing.T) {
	r := strings.NewReader(strings.Repeat(" ", MaxImportSize+1))
	if _, err := Import(context.Background(), r); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Import(oversized) = %v, want INVALID_INPUT", err)
	}
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportYAML(&buf, sampleGraph()); err != nil {
		t.Fatalf("ExportYAML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"nodes:", "label: raw_orders", "shape: diamond", "edges:"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "selected") {
		t.Error("YAML carries selection")
	}
}
