// Package codec converts metro maps to and from their document formats.
//
// A map document lists stations with their locations and lines as ordered
// station references. YAML and JSON share the same document shape.
package codec

import (
	"fmt"
	"io"

	"metromaps/internal/domain"
)

// Importer interface for importing map data from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.ModelData, error)
	Format() string
}

// Exporter interface for exporting map data to various formats
type Exporter interface {
	Export(model *domain.ModelData, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for format ("yaml", "yml" or "json")
func ForFormat(format string) (Codec, error) {
	switch format {
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
