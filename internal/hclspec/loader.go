package hclspec

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/avk/specpipe/internal/ctxlog"
	"github.com/avk/specpipe/internal/fsutil"
	"github.com/avk/specpipe/internal/stage"
)

// stageBlock is the HCL schema for a `stage` block. The attribute set is open
// here and checked strictly in decodeStage, so unknown attributes produce a
// named error instead of being silently dropped.
type stageBlock struct {
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

type catalogFile struct {
	Stages []*stageBlock `hcl:"stage,block"`
	Body   hcl.Body      `hcl:",remain"`
}

// LoadDir parses every .hcl file under path and returns the declared stage
// specs in file-then-declaration order.
func LoadDir(ctx context.Context, path string) ([]stage.Spec, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading stage manifests.", "path", path)

	filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl stage manifests found in path.", "path", path)
		return nil, nil
	}

	parser := hclparse.NewParser()
	var specs []stage.Spec
	for _, filePath := range filePaths {
		file, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse stage manifest %s: %w", filePath, diags)
		}

		var catalog catalogFile
		if diags := gohcl.DecodeBody(file.Body, nil, &catalog); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode stage manifest %s: %w", filePath, diags)
		}

		for _, block := range catalog.Stages {
			spec, err := decodeStage(block)
			if err != nil {
				return nil, fmt.Errorf("stage manifest %s: %w", filePath, err)
			}
			specs = append(specs, spec)
		}
		logger.Debug("Loaded stage manifest.", "file", filePath, "stages", len(catalog.Stages))
	}

	logger.Info("Stage manifests loaded.", "stage_definitions_loaded", len(specs))
	return specs, nil
}

// decodeStage evaluates a stage block's attributes into a stage.Spec.
func decodeStage(block *stageBlock) (stage.Spec, error) {
	spec := stage.Spec{ID: block.ID}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return stage.Spec{}, fmt.Errorf("stage %q: %w", block.ID, diags)
	}

	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return stage.Spec{}, fmt.Errorf("stage %q: attribute %q: %w", block.ID, name, diags)
		}

		var err error
		switch name {
		case "command":
			err = decodeString(val, &spec.Command)
		case "args":
			err = decodeStringList(val, &spec.FixedArgs)
		case "flags":
			err = decodeStringList(val, &spec.Flags)
		case "depends_on":
			err = decodeStringList(val, &spec.DependsOn)
		case "parallelizable":
			err = decodeBool(val, &spec.Parallelizable)
		default:
			err = fmt.Errorf("unsupported attribute")
		}
		if err != nil {
			return stage.Spec{}, fmt.Errorf("stage %q: attribute %q: %w", block.ID, name, err)
		}
	}

	if spec.Command == "" {
		// A stage without a command defaults to its own id as the executable.
		spec.Command = spec.ID
	}
	return spec, nil
}

func decodeString(val cty.Value, out *string) error {
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, out)
}

func decodeBool(val cty.Value, out *bool) error {
	converted, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, out)
}

func decodeStringList(val cty.Value, out *[]string) error {
	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return err
	}
	if converted.IsNull() {
		return nil
	}
	list := make([]string, 0, converted.LengthInt())
	for it := converted.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		var s string
		if err := gocty.FromCtyValue(elem, &s); err != nil {
			return err
		}
		list = append(list, s)
	}
	*out = list
	return nil
}
