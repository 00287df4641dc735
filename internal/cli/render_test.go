package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/lineageflow/pkg/errors"
)

func TestRenderOutputPath(t *testing.T) {
	tests := []struct {
		name string
		opts renderOpts
		want string
	}{
		{"svg default", renderOpts{format: "svg"}, "data-lineage.svg"},
		{"dot default", renderOpts{format: "dot"}, "data-lineage.dot"},
		{"explicit output", renderOpts{format: "svg", output: "out/graph.svg"}, "out/graph.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.outputPath(); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderDOT(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "raw_orders", "--x", "0", "--y", "0")
	env.mustRun("add", "orders", "--x", "0", "--y", "100")
	env.mustRun("connect", "1", "2", "--label", "cleans")

	out := filepath.Join(t.TempDir(), "graph.dot")
	env.mustRun("render", "-f", "dot", "-d", "LR", "-o", out)

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(data)
	for _, want := range []string{"digraph lineage {", "rankdir=LR;", `label="raw_orders"`, `"1" -> "2"`, `label="cleans"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("add", "a")

	if err := env.run("render", "-f", "pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("render -f pdf = %v, want INVALID_FORMAT", err)
	}
	if err := env.run("render", "-f", "dot", "-d", "RL"); !errors.Is(err, errors.ErrCodeInvalidDirection) {
		t.Errorf("render -d RL = %v, want INVALID_DIRECTION", err)
	}
}

func TestRenderEmptyGraph(t *testing.T) {
	env := newTestEnv(t)
	out := filepath.Join(t.TempDir(), "empty.dot")
	env.mustRun("render", "-f", "dot", "-o", out)
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("empty graph should not be rendered, stat err = %v", err)
	}
}
