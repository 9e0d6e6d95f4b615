package interpreter

import (
	"encoding/json"
	"fmt"
	"strings"

	"go-viz-pipeline/internal/model"
)

// wireInstructions is the loosely-typed shape the service emits. It is
// validated into model.Instructions here so nothing duck-typed flows past
// this boundary.
type wireInstructions struct {
	Filters []struct {
		Column    string      `json:"column"`
		Operation string      `json:"operation"`
		Value     interface{} `json:"value"`
	} `json:"filters"`
	GroupBy     interface{} `json:"groupby"`
	Aggregation struct {
		Method string `json:"method"`
		Column string `json:"column"`
	} `json:"aggregation"`
	Visualization struct {
		Type  string `json:"type"`
		XAxis string `json:"x_axis"`
		YAxis string `json:"y_axis"`
		Color string `json:"color"`
		Title string `json:"title"`
	} `json:"visualization"`
}

// ParseInstructions validates raw service output into strict instructions.
// Individual malformed filters are dropped; a structurally broken document
// is an error and the caller falls back to DefaultInstructions.
func ParseInstructions(raw []byte) (model.Instructions, error) {
	if len(raw) == 0 {
		return model.Instructions{}, fmt.Errorf("no JSON object in interpreter output")
	}

	var wire wireInstructions
	if err := json.Unmarshal(raw, &wire); err != nil {
		return model.Instructions{}, fmt.Errorf("invalid instruction JSON: %w", err)
	}

	out := model.DefaultInstructions()

	for _, f := range wire.Filters {
		if f.Column == "" || f.Operation == "" {
			continue
		}
		out.Filters = append(out.Filters, model.FilterSpec{
			Column:    f.Column,
			Operation: f.Operation,
			Value:     f.Value,
		})
	}

	out.GroupBy = toStringSlice(wire.GroupBy)

	if wire.Aggregation.Method != "" {
		out.Aggregation.Method = strings.ToLower(wire.Aggregation.Method)
	}
	out.Aggregation.Column = wire.Aggregation.Column

	if wire.Visualization.Type != "" {
		out.Visualization.Type = strings.ToLower(wire.Visualization.Type)
	}
	out.Visualization.XAxis = wire.Visualization.XAxis
	out.Visualization.YAxis = wire.Visualization.YAxis
	out.Visualization.Color = wire.Visualization.Color
	if wire.Visualization.Title != "" {
		out.Visualization.Title = wire.Visualization.Title
	}

	return out, nil
}

// toStringSlice accepts either a JSON array of strings or a single string.
func toStringSlice(v interface{}) []string {
	switch val := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if val == "" {
			return []string{}
		}
		return []string{val}
	default:
		return []string{}
	}
}
