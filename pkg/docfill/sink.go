package docfill

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/benjaminschreck/go-docfill/pkg/docfill/filename"
)

// ResultSink receives the generated documents, one call per page
type ResultSink interface {
	WriteResult(data []byte) error
}

// ResultSinkFunc adapts a function to a ResultSink
type ResultSinkFunc func(data []byte) error

func (f ResultSinkFunc) WriteResult(data []byte) error { return f(data) }

// WriterSink writes every result to w
func WriterSink(w io.Writer) ResultSink {
	return ResultSinkFunc(func(data []byte) error {
		_, err := w.Write(data)
		return err
	})
}

// MemorySink keeps the results in memory
type MemorySink struct {
	Results [][]byte
}

func (m *MemorySink) WriteResult(data []byte) error {
	m.Results = append(m.Results, data)
	return nil
}

// DirSink writes each result to a new file in dir named after baseName, e.g.
// "letter.docx", "letter (1).docx", ...
func DirSink(dir, baseName string) (ResultSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}
	gen := filename.NewGenerator()
	for _, e := range entries {
		gen.Reserve(e.Name())
	}

	return ResultSinkFunc(func(data []byte) error {
		name, err := gen.Next(baseName)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(dir, name), data, 0o644)
	}), nil
}
