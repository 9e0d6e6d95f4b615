// Package render turns a table plus a visualization spec into embeddable
// HTML. Charts are emitted as Vega-Lite specs; a rendering failure produces
// an inline error fragment rather than an error, so the pipeline always has
// something to store.
package render

import (
	"encoding/json"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"

	"go-viz-pipeline/internal/dataset"
	"go-viz-pipeline/internal/model"
)

// Renderer builds chart markup from processed tables.
type Renderer struct {
	Width  int
	Height int
}

func New() *Renderer {
	return &Renderer{Width: 600, Height: 400}
}

// Render produces an embeddable HTML fragment for the chart. It never
// returns an error: unusable input yields an error fragment.
func (r *Renderer) Render(t *dataset.Table, viz model.VisualizationSpec) string {
	if t == nil || len(t.Rows) == 0 {
		return errorFragment("Insufficient data or visualization information")
	}

	xAxis, yAxis := r.resolveAxes(t, viz)
	spec, err := r.buildSpec(t, viz, xAxis, yAxis)
	if err != nil {
		return errorFragment(err.Error())
	}

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return errorFragment(fmt.Sprintf("failed to encode chart spec: %v", err))
	}

	divID := "vis-" + uuid.New().String()[:8]
	return fmt.Sprintf(`<div id=%q></div>
<script src="https://cdn.jsdelivr.net/npm/vega@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-lite@5"></script>
<script src="https://cdn.jsdelivr.net/npm/vega-embed@6"></script>
<script>vegaEmbed("#%s", %s);</script>`, divID, divID, specJSON)
}

// resolveAxes fills missing axes: x falls back to the first column, y to the
// first numeric column that is not x, else the second column.
func (r *Renderer) resolveAxes(t *dataset.Table, viz model.VisualizationSpec) (string, string) {
	xAxis, yAxis := viz.XAxis, viz.YAxis
	if xAxis == "" && len(t.Columns) > 0 {
		xAxis = t.Columns[0]
	}
	if yAxis == "" && len(t.Columns) > 1 {
		for _, col := range t.Columns {
			if col != xAxis && t.IsNumericColumn(col) {
				yAxis = col
				break
			}
		}
		if yAxis == "" {
			yAxis = t.Columns[1]
		}
	}
	return xAxis, yAxis
}

func (r *Renderer) buildSpec(t *dataset.Table, viz model.VisualizationSpec, xAxis, yAxis string) (map[string]interface{}, error) {
	if xAxis == "" || yAxis == "" {
		return nil, fmt.Errorf("cannot determine chart axes")
	}

	title := viz.Title
	if title == "" {
		title = "Data Visualization"
	}

	spec := map[string]interface{}{
		"$schema": "https://vega.github.io/schema/vega-lite/v5.json",
		"title":   title,
		"width":   r.Width,
		"height":  r.Height,
		"data":    map[string]interface{}{"values": t.Rows},
	}

	xType := fieldType(t, xAxis)
	yType := fieldType(t, yAxis)

	switch viz.Type {
	case "pie":
		spec["mark"] = map[string]interface{}{"type": "arc"}
		spec["encoding"] = map[string]interface{}{
			"theta": map[string]interface{}{"field": yAxis, "type": "quantitative"},
			"color": map[string]interface{}{"field": xAxis, "type": "nominal"},
		}
	case "line", "area", "scatter", "bar", "":
		mark := viz.Type
		switch mark {
		case "scatter":
			mark = "point"
		case "":
			mark = "bar"
		}
		encoding := map[string]interface{}{
			"x": map[string]interface{}{"field": xAxis, "type": xType, "title": xAxis},
			"y": map[string]interface{}{"field": yAxis, "type": yType, "title": yAxis},
		}
		if viz.Color != "" {
			encoding["color"] = map[string]interface{}{"field": viz.Color, "title": viz.Color}
		}
		spec["mark"] = mark
		spec["encoding"] = encoding
	default:
		// Unknown chart types degrade to a bar chart.
		spec["mark"] = "bar"
		spec["encoding"] = map[string]interface{}{
			"x": map[string]interface{}{"field": xAxis, "type": xType, "title": xAxis},
			"y": map[string]interface{}{"field": yAxis, "type": yType, "title": yAxis},
		}
	}
	return spec, nil
}

func fieldType(t *dataset.Table, col string) string {
	if t.IsNumericColumn(col) {
		return "quantitative"
	}
	return "nominal"
}

func errorFragment(message string) string {
	return fmt.Sprintf(`<div style="color: red; padding: 20px; border: 1px solid #ddd; text-align: center;">
  <h3>Error Generating Visualization</h3>
  <p>%s</p>
</div>`, html.EscapeString(message))
}

// Document wraps rendered chart markup and its explanation into a standalone
// HTML page suitable for download.
func (r *Renderer) Document(title, chartHTML, explanation string) string {
	if title == "" {
		title = "Data Visualization"
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>%s</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 20px; line-height: 1.6; }
    .container { max-width: 1000px; margin: 0 auto; }
    .visualization { margin: 30px 0; }
    .explanation { background-color: #f9f9f9; padding: 15px; border-radius: 5px; }
    h1 { color: #333; }
  </style>
</head>
<body>
  <div class="container">
    <h1>%s</h1>
    <div class="visualization">%s</div>
    <div class="explanation">
      <h2>Explanation</h2>
      <p>%s</p>
    </div>
    <div class="footer">
      <p><small>Generated on %s</small></p>
    </div>
  </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), chartHTML,
		html.EscapeString(explanation), time.Now().Format("2006-01-02 15:04:05"))
}

// ErrorDocument is the minimal page returned for an unknown identifier.
func (r *Renderer) ErrorDocument(message string) string {
	return fmt.Sprintf("<html><body><h1>Error</h1><p>%s</p></body></html>", html.EscapeString(message))
}
