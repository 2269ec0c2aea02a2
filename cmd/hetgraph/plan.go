package main

import (
	"github.com/rohankatakam/hetgraph/internal/config"
	"github.com/rohankatakam/hetgraph/internal/hetero"
)

// buildPlan applies config overrides to the default plan. A positive
// limitOverride replaces every per-type node limit.
func buildPlan(c *config.Config, limitOverride int) hetero.Plan {
	plan := hetero.DefaultPlan(c.Assembly.DefaultLimit)
	for i := range plan.Nodes {
		spec := &plan.Nodes[i]
		spec.Limit = c.LimitFor(string(spec.Type))
		if limitOverride > 0 {
			spec.Limit = limitOverride
		}
		if attrs, ok := c.Assembly.Attributes[string(spec.Type)]; ok {
			spec.Attributes = append([]string(nil), attrs...)
		}
	}
	for i := range plan.Edges {
		plan.Edges[i].Limit = c.Assembly.EdgeLimit
	}
	return plan
}
