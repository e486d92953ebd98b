package api

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/wgomg/versa/internal/poems"
	"github.com/wgomg/versa/internal/scoring"
)

func GenerateSchema[T any]() (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)

	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}
	return m, nil
}

func buildSchemas() (*SchemaResponse, error) {
	scoreRequest, err := GenerateSchema[ScoreRequest]()
	if err != nil {
		return nil, err
	}
	submission, err := GenerateSchema[poems.Submission]()
	if err != nil {
		return nil, err
	}
	scoreResult, err := GenerateSchema[scoring.Result]()
	if err != nil {
		return nil, err
	}

	return &SchemaResponse{
		ScoreRequest: scoreRequest,
		Submission:   submission,
		ScoreResult:  scoreResult,
	}, nil
}
