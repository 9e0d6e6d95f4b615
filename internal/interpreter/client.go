// Package interpreter talks to the natural-language instruction service.
// The service turns free-form requirements into structured filter/group/
// aggregate/visualization instructions; its output is validated at this
// boundary and a parse failure always degrades to a documented default,
// never to a pipeline error.
package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-viz-pipeline/internal/model"
	"go-viz-pipeline/pkg/utils"
)

// Client is the instruction-interpreter contract the pipeline depends on.
type Client interface {
	// MapColumns maps technical column names to business labels.
	MapColumns(ctx context.Context, columns []string) (map[string]string, error)

	// InterpretRequirements converts free-form requirements into validated
	// processing instructions. Malformed service output yields the default
	// instructions, never an error.
	InterpretRequirements(ctx context.Context, requirements string, schemaMapping map[string]string, sample map[string][]interface{}) (model.Instructions, error)

	// Explain produces a short non-technical description of the chart.
	Explain(ctx context.Context, summary model.DataSummary, viz model.VisualizationSpec) (string, error)
}

// Config holds the connection settings for the generation service.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

const (
	schemaSystemPrompt = "You are a schema mapping assistant that converts technical " +
		"database column names to business-friendly entity names. You understand common " +
		"naming conventions and map them to their likely business meanings."

	processingSystemPrompt = "You are a data processing assistant that converts natural " +
		"language requirements into precise filtering, grouping and aggregation operations."

	explainSystemPrompt = "You are a data visualization assistant that explains charts " +
		"clearly and without technical jargon."
)

type httpClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds a Client against an Ollama-compatible /api/generate endpoint.
func NewClient(cfg Config, log *zap.Logger) Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &httpClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// generate performs one blocking, synchronous call with no retry.
func (c *httpClient) generate(ctx context.Context, system, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: system,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("interpreter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("interpreter returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode interpreter response: %w", err)
	}
	return out.Response, nil
}

func (c *httpClient) MapColumns(ctx context.Context, columns []string) (map[string]string, error) {
	prompt := fmt.Sprintf(`I have a dataset with the following column names:
%s

Please map these technical column names to their likely business entities.
Return your response as valid JSON with the technical name as key and business entity as value.
Example format: {"technical_name": "business_entity"}`, strings.Join(columns, ", "))

	response, err := c.generate(ctx, schemaSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var mapping map[string]string
	if err := json.Unmarshal(extractJSON(response), &mapping); err != nil {
		// Unparseable output still covers every requested column.
		c.log.Warn("schema mapping output not parseable, using humanized fallback", zap.Error(err))
		mapping = make(map[string]string, len(columns))
		for _, col := range columns {
			mapping[col] = utils.HumanizeColumn(col)
		}
	}
	return mapping, nil
}

func (c *httpClient) InterpretRequirements(ctx context.Context, requirements string, schemaMapping map[string]string, sample map[string][]interface{}) (model.Instructions, error) {
	schemaJSON, _ := json.MarshalIndent(schemaMapping, "", "  ")
	sampleJSON, _ := json.MarshalIndent(sample, "", "  ")

	prompt := fmt.Sprintf(`I have a dataset with the following schema mapping:
%s

Here's a sample of the data:
%s

The user has the following requirements:
"%s"

Analyze the requirements and return a valid JSON object with this structure:
{
  "filters": [{"column": "column_name", "operation": "==, >, <, in, etc.", "value": "filter_value"}],
  "groupby": ["column1", "column2"],
  "aggregation": {"method": "sum, mean, count, etc.", "column": "column_to_aggregate"},
  "visualization": {"type": "bar, line, scatter, pie, etc.", "x_axis": "column_name", "y_axis": "column_name", "color": "column_name (optional)", "title": "suggested chart title"}
}`, schemaJSON, sampleJSON, requirements)

	response, err := c.generate(ctx, processingSystemPrompt, prompt)
	if err != nil {
		return model.Instructions{}, err
	}

	instructions, parseErr := ParseInstructions(extractJSON(response))
	if parseErr != nil {
		c.log.Warn("instruction output not parseable, using defaults",
			zap.Error(parseErr), zap.String("raw", truncate(response, 256)))
		return model.DefaultInstructions(), nil
	}
	return instructions, nil
}

func (c *httpClient) Explain(ctx context.Context, summary model.DataSummary, viz model.VisualizationSpec) (string, error) {
	summaryJSON, _ := json.MarshalIndent(summary, "", "  ")

	prompt := fmt.Sprintf(`I've created a visualization with the following characteristics:
- Type: %s
- Title: %s
- X-axis: %s
- Y-axis: %s

Data summary:
%s

Provide a concise, non-technical explanation of what this visualization shows
and any patterns that can be observed.`, viz.Type, viz.Title, viz.XAxis, viz.YAxis, summaryJSON)

	return c.generate(ctx, explainSystemPrompt, prompt)
}

// extractJSON returns the substring between the first '{' and the last '}',
// which is where generation services tend to put the structured part.
func extractJSON(response string) []byte {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return nil
	}
	return []byte(response[start : end+1])
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
