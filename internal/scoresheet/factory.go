package scoresheet

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Parser turns an uploaded score sheet into rows.
type Parser interface {
	Parse(data []byte) (*Sheet, error)
}

// Factory picks a parser by file extension.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
}
