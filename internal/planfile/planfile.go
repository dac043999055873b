// Package planfile loads a declarative HCL description of a test body's
// section/generator shape and can replay that shape through a real
// *part.Context, without any actual test code, for tooling that wants to
// reason about or dry-run a suite before it exists.
package planfile

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"golang.org/x/mod/semver"

	"github.com/vk/parttracker/internal/part"
)

// maxSupportedSchemaVersion is the newest planfile schema this package
// knows how to decode.
const maxSupportedSchemaVersion = "1.0.0"

type sectionBlock struct {
	Name       string            `hcl:"name,label"`
	Sections   []*sectionBlock   `hcl:"section,block"`
	Generators []*generatorBlock `hcl:"generator,block"`
}

type generatorBlock struct {
	Name       string            `hcl:"name,label"`
	Size       int               `hcl:"size"`
	Sections   []*sectionBlock   `hcl:"section,block"`
	Generators []*generatorBlock `hcl:"generator,block"`
}

type fileRoot struct {
	SchemaVersion string          `hcl:"schema_version"`
	Sections      []*sectionBlock `hcl:"section,block"`
	Remain        hcl.Body        `hcl:",remain"`
}

// PlanNode is one node of a decoded planfile, detached from any HCL type.
type PlanNode struct {
	Name     string
	Kind     part.Kind
	Size     int // generator only
	Children []*PlanNode
}

// Plan is the decoded contents of one planfile.
type Plan struct {
	SchemaVersion string
	Roots         []*PlanNode
}

// Load parses the planfile at path, validates its schema_version against
// maxSupportedSchemaVersion with golang.org/x/mod/semver, and returns the
// decoded Plan.
func Load(path string) (*Plan, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("planfile: parse %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(f.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("planfile: decode %s: %w", path, diags)
	}

	if err := checkSchemaVersion(root.SchemaVersion); err != nil {
		return nil, fmt.Errorf("planfile: %s: %w", path, err)
	}

	plan := &Plan{SchemaVersion: root.SchemaVersion}
	for _, s := range root.Sections {
		plan.Roots = append(plan.Roots, convertSection(s))
	}
	if len(plan.Roots) == 0 {
		return nil, fmt.Errorf("planfile: %s: no top-level section block", path)
	}
	return plan, nil
}

func checkSchemaVersion(v string) error {
	if v == "" {
		return fmt.Errorf("missing schema_version")
	}
	withV := "v" + v
	if !semver.IsValid(withV) {
		return fmt.Errorf("schema_version %q is not valid semver", v)
	}
	if semver.Compare(withV, "v"+maxSupportedSchemaVersion) > 0 {
		return fmt.Errorf("schema_version %q is newer than the supported %q", v, maxSupportedSchemaVersion)
	}
	return nil
}

func convertSection(s *sectionBlock) *PlanNode {
	n := &PlanNode{Name: s.Name, Kind: part.SectionKind}
	for _, c := range s.Sections {
		n.Children = append(n.Children, convertSection(c))
	}
	for _, g := range s.Generators {
		n.Children = append(n.Children, convertGenerator(g))
	}
	return n
}

func convertGenerator(g *generatorBlock) *PlanNode {
	n := &PlanNode{Name: g.Name, Kind: part.GeneratorKind, Size: g.Size}
	for _, c := range g.Sections {
		n.Children = append(n.Children, convertSection(c))
	}
	for _, sub := range g.Generators {
		n.Children = append(n.Children, convertGenerator(sub))
	}
	return n
}
