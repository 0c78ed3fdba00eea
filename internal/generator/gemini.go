// Package generator turns extracted documentation into a cheatsheet with
// the Gemini API.
package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

// Default generation settings
const (
	DefaultModel            = "gemini-2.5-pro"
	DefaultTemperature      = float32(0.2)
	DefaultMaxOutputTokens  = int32(65536)
	DefaultResponseMIMEType = "text/plain"
	DefaultHeadingPrefix    = "# "
)

// ContentGenerator is the part of *genai.Models the client uses
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures the generation request
type Options struct {
	Model             string
	SystemInstruction string
	Temperature       float32
	MaxOutputTokens   int32
	ResponseMIMEType  string
	// HeadingPrefix is the expected start of a well-formed document; a
	// mismatch is only logged.
	HeadingPrefix string
}

// DefaultOptions returns the default generation settings
func DefaultOptions() Options {
	return Options{
		Model:             DefaultModel,
		SystemInstruction: DefaultSystemInstruction,
		Temperature:       DefaultTemperature,
		MaxOutputTokens:   DefaultMaxOutputTokens,
		ResponseMIMEType:  DefaultResponseMIMEType,
		HeadingPrefix:     DefaultHeadingPrefix,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Model == "" {
		o.Model = d.Model
	}
	if o.SystemInstruction == "" {
		o.SystemInstruction = d.SystemInstruction
	}
	if o.MaxOutputTokens <= 0 {
		o.MaxOutputTokens = d.MaxOutputTokens
	}
	if o.ResponseMIMEType == "" {
		o.ResponseMIMEType = d.ResponseMIMEType
	}
	return o
}

// Client implements domain.Generator
type Client struct {
	models ContentGenerator
	opts   Options
	logger *utils.Logger
}

// NewClient creates a Gemini API client. An empty apiKey is a fatal
// configuration error.
func NewClient(ctx context.Context, apiKey string, opts Options, logger *utils.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.ErrMissingAPIKey
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return New(gc.Models, opts, logger), nil
}

// New wraps an existing content generator
func New(models ContentGenerator, opts Options, logger *utils.Logger) *Client {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Client{
		models: models,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.opts.Model
}

// Generate sends one request and returns the response text verbatim
func (c *Client) Generate(ctx context.Context, documentation, projectName string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(BuildPrompt(projectName, documentation), genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.opts.SystemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(c.opts.Temperature),
		MaxOutputTokens:   c.opts.MaxOutputTokens,
		ResponseMIMEType:  c.opts.ResponseMIMEType,
	}

	c.logger.Info().
		Str("model", c.opts.Model).
		Int("doc_bytes", len(documentation)).
		Msg("Calling generative API")

	start := time.Now()
	resp, err := c.models.GenerateContent(ctx, c.opts.Model, contents, config)
	if err != nil {
		return "", transportError(err)
	}
	if resp == nil {
		return "", domain.NewGenerationError(domain.GenerationNoContent, "empty response", nil)
	}

	finish := finishReason(resp)
	text := responseText(resp)

	event := c.logger.Debug().
		Dur("duration", time.Since(start)).
		Str("finish_reason", string(finish))
	if u := resp.UsageMetadata; u != nil {
		event = event.
			Int32("prompt_tokens", u.PromptTokenCount).
			Int32("output_tokens", u.CandidatesTokenCount)
	}
	event.Msg("Generative API responded")

	if strings.TrimSpace(text) == "" {
		return "", classifyEmpty(resp, finish)
	}

	if finish != genai.FinishReasonStop && finish != genai.FinishReasonUnspecified && finish != "" {
		c.logger.Warn().
			Str("finish_reason", string(finish)).
			Msg("Response finished abnormally, output may be truncated")
	}
	if c.opts.HeadingPrefix != "" && !strings.HasPrefix(strings.TrimLeft(text, " \t\r\n"), c.opts.HeadingPrefix) {
		c.logger.Warn().
			Str("expected_prefix", c.opts.HeadingPrefix).
			Msg("Generated document does not start with the expected heading")
	}

	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if text := resp.Text(); text != "" {
		return text
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func finishReason(resp *genai.GenerateContentResponse) genai.FinishReason {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	return resp.Candidates[0].FinishReason
}

var safetyFinishReasons = map[genai.FinishReason]bool{
	genai.FinishReasonSafety:            true,
	genai.FinishReasonProhibitedContent: true,
	genai.FinishReasonBlocklist:         true,
	genai.FinishReasonSPII:              true,
}

func classifyEmpty(resp *genai.GenerateContentResponse, finish genai.FinishReason) error {
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		msg := fmt.Sprintf("prompt blocked: %s", fb.BlockReason)
		if fb.BlockReasonMessage != "" {
			msg += " (" + fb.BlockReasonMessage + ")"
		}
		return domain.NewGenerationError(domain.GenerationBlocked, msg, nil)
	}

	if safetyFinishReasons[finish] {
		return domain.NewGenerationError(domain.GenerationBlocked,
			fmt.Sprintf("response blocked: finish reason %s", finish), nil)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		for _, r := range resp.Candidates[0].SafetyRatings {
			if r != nil && r.Blocked {
				return domain.NewGenerationError(domain.GenerationBlocked,
					fmt.Sprintf("response blocked by safety rating %s", r.Category), nil)
			}
		}
	}

	if finish != "" && finish != genai.FinishReasonStop && finish != genai.FinishReasonUnspecified {
		return domain.NewGenerationError(domain.GenerationAbnormalFinish,
			fmt.Sprintf("no text returned, finish reason %s", finish), nil)
	}

	if len(resp.Candidates) == 0 {
		return domain.NewGenerationError(domain.GenerationNoContent, "response has no candidates", nil)
	}
	return domain.NewGenerationError(domain.GenerationNoContent, "response has no text", nil)
}

func transportError(err error) error {
	genErr := domain.NewGenerationError(domain.GenerationTransport, err.Error(), err)

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		code = apiErrPtr.Code
	}

	if code > 0 {
		genErr.StatusCode = code
		if code == http.StatusUnauthorized || code == http.StatusForbidden {
			genErr.Message = "authentication failed, check GEMINI_API_KEY: " + genErr.Message
		}
	}
	return genErr
}
