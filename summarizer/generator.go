package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"yt-insight/config"
	"yt-insight/models"
)

const responseMIMEType = "application/json"

type LLMRequestLog struct {
	Prompt       string     `json:"prompt"`
	Response     string     `json:"response"`
	LatencyMs    int64      `json:"latency_ms"`
	TokenUsage   TokenUsage `json:"token_usage"`
	ModelName    string     `json:"model_name"`
	ModelVersion string     `json:"model_version"`
	GeneratedAt  time.Time  `json:"generated_at"`
	Error        string     `json:"error,omitempty"`
}

type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
	TotalTokens  int64 `json:"total_tokens"`
}

// GenerationError is a failed generation the model side is responsible for:
// a non-2xx API status, an unusable response body or an exhausted quota.
type GenerationError struct {
	// Status is the HTTP status of the API call, 0 when no status applies.
	Status int
	Reason string
	Cause  error
}

func (e *GenerationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("API call failed with status: %d", e.Status)
	}
	return e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Cause }

const ReasonMalformedResponse = "malformed response"
const ReasonQuotaExhausted = "daily generation quota exhausted"

// ModelClient is the part of genai.Models the generator uses.
type ModelClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// QuotaLimiter gates each model call.
type QuotaLimiter interface {
	WaitAndReserve(ctx context.Context) (bool, error)
}

// Generator turns a video's title, description and comments into an AnalysisReport.
type Generator struct {
	models  ModelClient
	model   string
	schema  *genai.Schema
	limiter QuotaLimiter
}

// NewGenerator builds a generator. limiter may be nil for no quota.
func NewGenerator(mc ModelClient, model string, limiter QuotaLimiter) (*Generator, error) {
	schema, err := LoadReportSchema()
	if err != nil {
		return nil, err
	}
	return &Generator{models: mc, model: model, schema: schema, limiter: limiter}, nil
}

// NewGeminiGenerator connects to the Gemini API with the given key.
func NewGeminiGenerator(ctx context.Context, apiKey, model string, limiter QuotaLimiter) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return NewGenerator(client.Models, model, limiter)
}

// Generate analyzes comments. When no comment has an author and text the
// fallback report is returned without calling the model and the log is nil.
// The log is also returned alongside errors once the model was called.
func (g *Generator) Generate(ctx context.Context, videoTitle, videoDescription string, comments []models.VideoComment) (*models.AnalysisReport, *LLMRequestLog, error) {
	usable := usableComments(comments)
	config.Logger().Info("formatting comments for generation", "valid_comments", len(usable))
	if len(usable) == 0 {
		config.Logger().Warn("no valid comments to analyze, using fallback report", "video_title", videoTitle)
		return FallbackReport(videoTitle), nil, nil
	}

	prompt := BuildPrompt(videoTitle, videoDescription, FormatComments(usable))

	if g.limiter != nil {
		ok, err := g.limiter.WaitAndReserve(ctx)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, &GenerationError{Reason: ReasonQuotaExhausted}
		}
	}

	startTime := time.Now()
	result, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: responseMIMEType,
		ResponseSchema:   g.schema,
	})
	llmLog := &LLMRequestLog{
		Prompt:      prompt,
		LatencyMs:   time.Since(startTime).Milliseconds(),
		ModelName:   g.model,
		GeneratedAt: time.Now(),
	}
	if err != nil {
		llmLog.Error = err.Error()
		if status, ok := apiStatus(err); ok {
			return nil, llmLog, &GenerationError{Status: status, Cause: err}
		}
		return nil, llmLog, fmt.Errorf("generate content: %w", err)
	}

	llmLog.ModelVersion = result.ModelVersion
	if result.UsageMetadata != nil {
		llmLog.TokenUsage = TokenUsage{
			InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
		}
	}

	text, ok := firstPartText(result)
	if !ok {
		llmLog.Error = ReasonMalformedResponse
		return nil, llmLog, &GenerationError{Reason: ReasonMalformedResponse}
	}
	llmLog.Response = text

	var report models.AnalysisReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		llmLog.Error = err.Error()
		return nil, llmLog, &GenerationError{Reason: ReasonMalformedResponse, Cause: err}
	}
	report.Normalize()
	return &report, llmLog, nil
}

func firstPartText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", false
	}
	return c.Content.Parts[0].Text, true
}

func apiStatus(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Code != 0 {
		return apiErrPtr.Code, true
	}
	return 0, false
}
