package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"gopkg.in/yaml.v3"

	"github.com/avk/specpipe/internal/stage"
)

// stepBlock is the HCL schema for a `step` block in a run description.
type stepBlock struct {
	StageID string   `hcl:"stage_id,label"`
	Flags   []string `hcl:"flags,optional"`
	Backend string   `hcl:"backend,optional"`
}

// descriptionFile is the HCL schema for a whole run description file.
type descriptionFile struct {
	Steps []*stepBlock `hcl:"step,block"`
	Body  hcl.Body     `hcl:",remain"`
}

// yamlStep mirrors stepBlock for YAML descriptions.
type yamlStep struct {
	Stage   string   `yaml:"stage"`
	Flags   []string `yaml:"flags"`
	Backend string   `yaml:"backend"`
}

type yamlDescription struct {
	Steps []yamlStep `yaml:"steps"`
}

// Load reads a run description file and builds a Profile from it. The format
// is chosen by extension: .hcl, or .yaml/.yml.
func Load(path string, reg *stage.Registry) (*Profile, error) {
	switch filepath.Ext(path) {
	case ".hcl":
		return LoadHCL(path, reg)
	case ".yaml", ".yml":
		return LoadYAML(path, reg)
	}
	return nil, fmt.Errorf("unsupported run description format %q (want .hcl, .yaml or .yml)", filepath.Ext(path))
}

// LoadHCL parses an HCL run description and builds a Profile.
func LoadHCL(path string, reg *stage.Registry) (*Profile, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse run description %s: %w", path, diags)
	}

	var desc descriptionFile
	if diags := gohcl.DecodeBody(file.Body, nil, &desc); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode run description %s: %w", path, diags)
	}

	selections := make([]Selection, 0, len(desc.Steps))
	for _, s := range desc.Steps {
		backend, err := ParseBackend(s.Backend)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", s.StageID, err)
		}
		selections = append(selections, Selection{StageID: s.StageID, Flags: s.Flags, Backend: backend})
	}
	return Build(selections, reg)
}

// LoadYAML parses a YAML run description and builds a Profile.
func LoadYAML(path string, reg *stage.Registry) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run description %s: %w", path, err)
	}

	var desc yamlDescription
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("failed to decode run description %s: %w", path, err)
	}

	selections := make([]Selection, 0, len(desc.Steps))
	for _, s := range desc.Steps {
		backend, err := ParseBackend(s.Backend)
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", s.Stage, err)
		}
		selections = append(selections, Selection{StageID: s.Stage, Flags: s.Flags, Backend: backend})
	}
	return Build(selections, reg)
}
