package infra

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/matzehuels/depaudit/pkg/deps"
)

var terraformSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "resource", LabelNames: []string{"type", "name"}},
	},
}

// scanTerraform reports every resource block of a .tf file. The name is
// the literal "name" attribute when present, the block label otherwise;
// Size comes from a literal sku or sku_name attribute.
func scanTerraform(content, rel string, opts deps.Options) []Resource {
	file, diags := hclparse.NewParser().ParseHCL([]byte(content), rel)
	if file == nil || diags.HasErrors() {
		opts.Logger("skipping terraform file %s: %s", rel, diags.Error())
		return nil
	}
	body, _, _ := file.Body.PartialContent(terraformSchema)

	var out []Resource
	for _, block := range body.Blocks {
		if len(block.Labels) != 2 {
			continue
		}
		res := Resource{
			Name:       block.Labels[1],
			Type:       block.Labels[0],
			Language:   LangTerraform,
			SourceFile: rel,
			Size:       SizeUnknown,
		}
		if sb, ok := block.Body.(*hclsyntax.Body); ok {
			if v, ok := literalString(sb, "name"); ok {
				res.Name = v
			}
			for _, attr := range []string{"sku", "sku_name"} {
				if v, ok := literalString(sb, attr); ok {
					res.Size = v
					break
				}
			}
		}
		out = append(out, res)
	}
	return out
}

// literalString evaluates attr without variables; interpolations and
// references therefore do not count as literals.
func literalString(body *hclsyntax.Body, attr string) (string, bool) {
	a, ok := body.Attributes[attr]
	if !ok {
		return "", false
	}
	val, diags := a.Expr.Value(nil)
	if diags.HasErrors() || val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return "", false
	}
	return val.AsString(), true
}
