package pmoparam

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlParameter struct {
	Name    string  `yaml:"name"`
	Default float64 `yaml:"default"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
}

type yamlDocument struct {
	Parameters []yamlParameter `yaml:"parameters"`
}

// LoadDefinitions reads a YAML parameter description and returns the
// validated definitions, in document order:
//
//	parameters:
//	  - name: gain
//	    default: 0.25
//	    min: 0
//	    max: 1
//
// The first invalid entry aborts the whole load.
func LoadDefinitions(r io.Reader) ([]*Definition, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("pmoparam: reading parameter description: %w", err)
	}

	var doc yamlDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("pmoparam: parsing parameter description: %w", err)
	}
	if len(doc.Parameters) == 0 {
		return nil, fmt.Errorf("pmoparam: parameter description declares no parameters")
	}

	defs := make([]*Definition, 0, len(doc.Parameters))
	for i, p := range doc.Parameters {
		def, err := NewDefinition(p.Name, p.Default, p.Min, p.Max)
		if err != nil {
			return nil, fmt.Errorf("pmoparam: parameter entry %d: %w", i, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
