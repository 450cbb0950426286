package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	toolSimulate          = "simulate_burnout_trajectory"
	toolListInterventions = "list_interventions"
)

func (s *Server) registerTools() error {
	simulateSchema, err := s.simulateInputSchema()
	if err != nil {
		return err
	}

	sdk.AddTool(s.server, &sdk.Tool{
		Name: toolSimulate,
		Description: "Project burnout risk day by day under a set of interventions using a Monte-Carlo ensemble of stochastic trajectories.\n\n" +
			"Individual mode needs check-in history (records or records_file) or an explicit baseline. " +
			"Population mode falls back to a documented default team baseline when no readings exist and adds a risk bucket distribution and a cost estimate.\n" +
			"Scores are 0-100 (higher is worse); buckets are low <30, moderate <60, high <80, critical.\n" +
			"GUARDRAIL: results are a what-if projection, not a diagnosis. Report the trend and time to impact together with the volatility, and never present a single day's score as certain.",
		InputSchema: simulateSchema,
	}, s.handleSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        toolListInterventions,
		Description: "List the interventions the simulator understands with their units, accepted ranges and whether their effect ramps in over the first weeks.",
	}, s.handleListInterventions)

	return nil
}

// simulateInputSchema infers the input schema and pins the intervention type
// to the registered kinds.
func (s *Server) simulateInputSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[SimulateInput](nil)
	if err != nil {
		return nil, fmt.Errorf("infer %s schema: %w", toolSimulate, err)
	}

	kinds := s.forecaster.Registry().Kinds()
	enum := make([]any, len(kinds))
	for i, k := range kinds {
		enum[i] = string(k)
	}

	items := schema.Properties["interventions"]
	if items == nil || items.Items == nil || items.Items.Properties["type"] == nil {
		return nil, fmt.Errorf("%s schema has no interventions[].type property", toolSimulate)
	}
	items.Items.Properties["type"].Enum = enum

	if mode := schema.Properties["mode"]; mode != nil {
		mode.Enum = []any{"individual", "population"}
	}
	if scale := schema.Properties["scale"]; scale != nil {
		scale.Enum = []any{"ten", "hundred"}
	}
	return schema, nil
}
