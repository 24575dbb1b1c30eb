// Package generation writes the documentation records to disk, one document per type.
package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	netdocErrors "netdoc/internal/errors"
	"netdoc/internal/model"
)

// Format selects the encoding of the written documents.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the on-disk shape of one type: its record plus the library menu.
type Document struct {
	model.TypeRecord `yaml:",inline"`
	Menu             []model.MenuEntry `json:"menu" yaml:"menu"`
}

type Generator struct {
	OutputPath string
	Format     Format
	logger     *slog.Logger
}

func NewGenerator(outputPath string, format Format, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if format == "" {
		format = FormatJSON
	}
	return &Generator{
		OutputPath: outputPath,
		Format:     format,
		logger:     logger,
	}
}

// Path returns the document path of a record.
func (generator *Generator) Path(record model.TypeRecord) string {
	return filepath.Join(generator.OutputPath, fmt.Sprintf("%s.%s", record.LinkName, generator.Format))
}

// Write creates the document of one record. The file is closed before Write returns.
func (generator *Generator) Write(record model.TypeRecord, menu []model.MenuEntry) error {
	err := os.Mkdir(generator.OutputPath, os.ModePerm)
	if err != nil && !errors.Is(err, fs.ErrExist) {
		return netdocErrors.OutputFailed(generator.OutputPath, err)
	}

	path := generator.Path(record)
	file, err := os.Create(path)
	if err != nil {
		return netdocErrors.OutputFailed(path, err)
	}

	err = generator.encode(file, Document{TypeRecord: record, Menu: menu})
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return netdocErrors.OutputFailed(path, err)
	}

	generator.logger.Debug("Wrote document", "path", path)
	return nil
}

func (generator *Generator) encode(writer io.Writer, document Document) error {
	switch generator.Format {
	case FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		return encoder.Encode(document)
	case FormatYAML:
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(2)
		if err := encoder.Encode(document); err != nil {
			return err
		}
		return encoder.Close()
	}
	return fmt.Errorf("unsupported format %q", generator.Format)
}

// ClearDirectoryIfNotEmpty removes the previous documents of the given format
// from the output directory. Other files are left in place.
func (generator *Generator) ClearDirectoryIfNotEmpty() error {
	entries, err := os.ReadDir(generator.OutputPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return netdocErrors.OutputFailed(generator.OutputPath, err)
	}

	extension := "." + string(generator.Format)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != extension {
			continue
		}
		if err := os.Remove(filepath.Join(generator.OutputPath, entry.Name())); err != nil {
			return netdocErrors.OutputFailed(generator.OutputPath, err)
		}
		removed++
	}

	if removed > 0 {
		generator.logger.Info("Cleaned output directory", "path", generator.OutputPath, "removed", removed)
	}
	return nil
}
