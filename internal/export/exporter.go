package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zheng/ratioflow/internal/graph"
	"github.com/zheng/ratioflow/internal/model"
)

// Section headers of the generated LP file
const (
	objectiveHeader  = "/* Objective function */"
	boundsHeader     = "/* Variable bounds */"
	constraintHeader = "/* Constraints */"
)

// Exporter renders a model as LP text
type Exporter struct {
	opts ExportOptions
}

// ExportOptions configures the rendering
type ExportOptions struct {
	Naming graph.Naming
}

// DefaultExportOptions returns default export options
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Naming: graph.NamingCompact,
	}
}

// NewExporter creates a new exporter
func NewExporter(opts ExportOptions) *Exporter {
	if opts.Naming == "" {
		opts.Naming = graph.NamingCompact
	}
	return &Exporter{opts: opts}
}

// Render returns the complete LP text of m
func (e *Exporter) Render(m *model.Model) []byte {
	var buf bytes.Buffer
	name := e.opts.Naming.Format

	buf.WriteString(objectiveHeader + "\n")
	buf.WriteString("max:")
	for _, edge := range m.Objective {
		buf.WriteString(" + " + name(edge))
	}
	buf.WriteString(";\n")

	buf.WriteString("\n" + boundsHeader + "\n")
	for _, b := range m.Bounds {
		fmt.Fprintf(&buf, "%s <= %d;\n", name(b.Edge), b.Capacity)
	}

	buf.WriteString("\n" + constraintHeader + "\n")
	for _, c := range m.Constraints {
		fmt.Fprintf(&buf, "%d %s = %d %s;\n", c.Ratio, name(c.Reference), c.ReferenceRatio, name(c.Edge))
	}

	return buf.Bytes()
}

// Export writes the LP text of m to w in one write
func (e *Exporter) Export(w io.Writer, m *model.Model) error {
	if _, err := w.Write(e.Render(m)); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// WriteFile replaces path with data atomically: data goes to a temporary
// file in the same directory which is renamed over path only once it is
// fully written and synced. On any failure path is left untouched.
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move model into place: %w", err)
	}
	return nil
}
