// Package manifest records, inside each experiment directory, which table row
// produced it and what the launcher runs. The record is an HCL file so it
// stays readable next to the specification files it describes.
package manifest

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// FileName is the manifest's name inside an experiment directory.
const FileName = "experiment.hcl"

// Manifest describes one materialized experiment.
type Manifest struct {
	Index    int      `hcl:"index"`
	Line     int      `hcl:"line"`
	Tool     string   `hcl:"tool"`
	Filename string   `hcl:"filename"`
	Init     string   `hcl:"init"`
	Next     string   `hcl:"next"`
	Inv      string   `hcl:"inv"`
	Args     string   `hcl:"args"`
	Command  string   `hcl:"command"`
	Files    []string `hcl:"files"`
}

type fileRoot struct {
	Experiment Manifest `hcl:"experiment,block"`
}

// Render returns the canonically formatted HCL text of m.
func Render(m Manifest) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body().AppendNewBlock("experiment", nil).Body()

	body.SetAttributeValue("index", cty.NumberIntVal(int64(m.Index)))
	body.SetAttributeValue("line", cty.NumberIntVal(int64(m.Line)))
	body.SetAttributeValue("tool", cty.StringVal(m.Tool))
	body.SetAttributeValue("filename", cty.StringVal(m.Filename))
	body.SetAttributeValue("init", cty.StringVal(m.Init))
	body.SetAttributeValue("next", cty.StringVal(m.Next))
	body.SetAttributeValue("inv", cty.StringVal(m.Inv))
	body.SetAttributeValue("args", cty.StringVal(m.Args))
	body.SetAttributeValue("command", cty.StringVal(m.Command))

	files := cty.ListValEmpty(cty.String)
	if len(m.Files) > 0 {
		vals := make([]cty.Value, len(m.Files))
		for i, name := range m.Files {
			vals[i] = cty.StringVal(name)
		}
		files = cty.ListVal(vals)
	}
	body.SetAttributeValue("files", files)

	return hclwrite.Format(f.Bytes())
}

// Write stores m at path.
func Write(path string, m Manifest) error {
	if err := os.WriteFile(path, Render(m), 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// Load reads a manifest written by Write.
func Load(path string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, diags)
	}
	return &root.Experiment, nil
}
