// internal/output/writer.go - Output writing implementation
package output

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
)

// FileWriter writes formatted tiles to a file with optional gzip
// compression.
type FileWriter struct {
	formatter   Formatter
	path        string
	file        *os.File
	gzipWriter  *gzip.Writer
	compression bool
}

// NewFileWriter creates a new file-based writer, creating parent directories
// as needed.
func NewFileWriter(config *WriterConfig, path string) (*FileWriter, error) {
	formatter, err := NewFormatter(&FormatterConfig{
		Format:   config.Format,
		Pretty:   config.Pretty,
		Metadata: config.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w := &FileWriter{
		formatter:   formatter,
		path:        path,
		file:        file,
		compression: config.Compression,
	}
	if config.Compression {
		w.gzipWriter = gzip.NewWriter(file)
	}
	return w, nil
}

// Write formats and writes a single tile.
func (w *FileWriter) Write(tile *Tile) error {
	data, err := w.formatter.Format(tile)
	if err != nil {
		return fmt.Errorf("formatting failed: %w", err)
	}

	if w.gzipWriter != nil {
		_, err = w.gzipWriter.Write(data)
	} else {
		_, err = w.file.Write(data)
	}
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (w *FileWriter) Close() error {
	if w.gzipWriter != nil {
		if err := w.gzipWriter.Close(); err != nil {
			w.file.Close()
			return fmt.Errorf("failed to finalize gzip stream: %w", err)
		}
	}
	return w.file.Close()
}

// StdoutWriter writes formatted tiles to standard output.
type StdoutWriter struct {
	formatter Formatter
}

// NewStdoutWriter creates a new stdout-based writer.
func NewStdoutWriter(format Format, pretty bool) (*StdoutWriter, error) {
	formatter, err := NewFormatter(&FormatterConfig{Format: format, Pretty: pretty})
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}
	return &StdoutWriter{formatter: formatter}, nil
}

// Write formats and writes a single tile to stdout.
func (w *StdoutWriter) Write(tile *Tile) error {
	data, err := w.formatter.Format(tile)
	if err != nil {
		return fmt.Errorf("formatting failed: %w", err)
	}

	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("write to stdout failed: %w", err)
	}

	// Trailing newline for readability
	_, err = os.Stdout.Write([]byte("\n"))
	return err
}

// Close is a no-op for stdout.
func (w *StdoutWriter) Close() error { return nil }
