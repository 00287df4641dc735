package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lineageflow/pkg/errors"
	"github.com/matzehuels/lineageflow/pkg/flow"
	"github.com/matzehuels/lineageflow/pkg/observability"
)

// ExportFilename is the default name of an exported graph.
const ExportFilename = "data-lineage.json"

// MaxImportSize bounds how much an import reads.
const MaxImportSize = 32 << 20

// Export writes g in the wire format, indented by two spaces.
func Export(w io.Writer, g flow.Graph) error {
	data, err := json.MarshalIndent(toWire(g), "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ExportFile writes g to path. The file is created with 0644 permissions.
func ExportFile(path string, g flow.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Export(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Import reads a whole payload from r and decodes it. The returned error
// carries PARSE_FAILURE or SCHEMA_VIOLATION for bad payloads and
// INVALID_INPUT for payloads larger than MaxImportSize.
func Import(ctx context.Context, r io.Reader) (flow.Graph, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return flow.Graph{}, fmt.Errorf("read import: %w", err)
	}
	if len(data) > MaxImportSize {
		err := errors.New(errors.ErrCodeInvalidInput, "import exceeds %d bytes", MaxImportSize)
		observability.Persist().OnImport(ctx, 0, 0, err)
		return flow.Graph{}, err
	}

	g, err := Deserialize(data)
	observability.Persist().OnImport(ctx, len(g.Nodes), len(g.Edges), err)
	return g, err
}

// ImportFile imports the .json file at path.
func ImportFile(ctx context.Context, path string) (flow.Graph, error) {
	if err := errors.ValidateImportFilename(path); err != nil {
		return flow.Graph{}, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return flow.Graph{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "no such file %s", path)
	}
	if err != nil {
		return flow.Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Import(ctx, f)
}

// ExportYAML writes g with the same fields as Export, as YAML, for reading
// in reviews and diffs.
func ExportYAML(w io.Writer, g flow.Graph) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toWire(g)); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
