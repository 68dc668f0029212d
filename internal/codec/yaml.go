package codec

import (
	"fmt"
	"io"

	"metromaps/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML map documents
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a map from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.ModelData, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return doc.Model()
}

// Export exports a map to YAML
func (c *YAMLCodec) Export(model *domain.ModelData, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(NewDocument(model)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
