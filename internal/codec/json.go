package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"metromaps/internal/domain"
)

// JSONCodec handles JSON map documents
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a map from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.ModelData, error) {
	var doc Document
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return doc.Model()
}

// Export exports a map to JSON
func (c *JSONCodec) Export(model *domain.ModelData, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(NewDocument(model)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
