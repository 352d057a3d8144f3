// Package schema validates scenario files against the embedded CUE
// schema before the harness parses them.
//
// The YAML decoder already rejects unknown fields, but its errors point
// at Go struct tags. CUE validation catches the same problems plus value
// constraints (enum tags, non-negative counts) with positions in the
// scenario file itself.
package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var scenarioCUE string

// ValidateScenarioBytes checks scenario YAML against the schema.
// The filename is used for error positions only.
func ValidateScenarioBytes(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup schema definition: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("build YAML: %w", err)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true), cue.Final()); err != nil {
		return fmt.Errorf("scenario does not match schema:\n%s", cueerrors.Details(err, nil))
	}

	return nil
}
