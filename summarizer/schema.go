package summarizer

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

//go:embed report_schema.json
var reportSchemaJSON []byte

// LoadReportSchema decodes the embedded response schema for AnalysisReport.
func LoadReportSchema() (*genai.Schema, error) {
	var s genai.Schema
	if err := json.Unmarshal(reportSchemaJSON, &s); err != nil {
		return nil, fmt.Errorf("decode report schema: %w", err)
	}
	return &s, nil
}
