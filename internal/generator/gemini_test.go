package generator

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/quantmind-br/cheatsheet/internal/domain"
	"github.com/quantmind-br/cheatsheet/internal/utils"
)

type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(text string, finish genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(text, genai.RoleModel),
			FinishReason: finish,
		}},
	}
}

func newTestClient(models ContentGenerator, buf *bytes.Buffer) *Client {
	logger := utils.NewNopLogger()
	if buf != nil {
		logger = utils.NewLogger(utils.LoggerOptions{Level: "debug", Format: "json", Output: buf})
	}
	return New(models, DefaultOptions(), logger)
}

func TestNewClient_MissingAPIKey(t *testing.T) {
	c, err := NewClient(context.Background(), "  ", DefaultOptions(), nil)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestNew_FillsDefaults(t *testing.T) {
	c := New(&fakeModels{}, Options{Temperature: 0.7}, nil)

	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultSystemInstruction, c.opts.SystemInstruction)
	assert.Equal(t, DefaultMaxOutputTokens, c.opts.MaxOutputTokens)
	assert.Equal(t, DefaultResponseMIMEType, c.opts.ResponseMIMEType)
	assert.Equal(t, float32(0.7), c.opts.Temperature)
	// an empty prefix disables the heading check
	assert.Empty(t, c.opts.HeadingPrefix)
}

func TestGenerate_Success(t *testing.T) {
	f := &fakeModels{resp: textResponse("# Widget\n\n## Install\n", genai.FinishReasonStop)}
	c := newTestClient(f, nil)

	text, err := c.Generate(context.Background(), "widget docs", "Widget")
	require.NoError(t, err)
	assert.Equal(t, "# Widget\n\n## Install\n", text)

	require.Equal(t, 1, f.calls)
	assert.Equal(t, DefaultModel, f.model)
	require.Len(t, f.contents, 1)
	require.Len(t, f.contents[0].Parts, 1)
	assert.Contains(t, f.contents[0].Parts[0].Text, `"Widget"`)
	assert.Contains(t, f.contents[0].Parts[0].Text, "widget docs")

	require.NotNil(t, f.config)
	require.NotNil(t, f.config.Temperature)
	assert.Equal(t, DefaultTemperature, *f.config.Temperature)
	assert.Equal(t, DefaultMaxOutputTokens, f.config.MaxOutputTokens)
	assert.Equal(t, "text/plain", f.config.ResponseMIMEType)
	require.NotNil(t, f.config.SystemInstruction)
	assert.Equal(t, DefaultSystemInstruction, f.config.SystemInstruction.Parts[0].Text)
}

func TestGenerate_ReturnsTextVerbatim(t *testing.T) {
	raw := "\n# Widget  \n\ttabbed\n"
	c := newTestClient(&fakeModels{resp: textResponse(raw, genai.FinishReasonStop)}, nil)

	text, err := c.Generate(context.Background(), "docs", "Widget")
	require.NoError(t, err)
	assert.Equal(t, raw, text)
}

func TestGenerate_FallbackToParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{
					{Text: "thinking...", Thought: true},
					{Text: "# Widget\n"},
					{Text: "body"},
				},
			},
			FinishReason: genai.FinishReasonStop,
		}},
	}
	c := newTestClient(&fakeModels{resp: resp}, nil)

	text, err := c.Generate(context.Background(), "docs", "Widget")
	require.NoError(t, err)
	assert.Equal(t, "# Widget\nbody", text)
}

func TestGenerate_BlockedPrompt(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
			BlockReason:        genai.BlockedReasonSafety,
			BlockReasonMessage: "unsafe input",
		},
	}
	c := newTestClient(&fakeModels{resp: resp}, nil)

	text, err := c.Generate(context.Background(), "docs", "Widget")
	assert.Empty(t, text)
	require.Error(t, err)
	assert.Equal(t, domain.GenerationBlocked, domain.GenerationKindOf(err))
	assert.Contains(t, err.Error(), "SAFETY")
	assert.Contains(t, err.Error(), "unsafe input")
}

func TestGenerate_EmptyClassification(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want domain.GenerationKind
	}{
		{
			name: "safety finish reason",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{},
				FinishReason: genai.FinishReasonSafety,
			}}},
			want: domain.GenerationBlocked,
		},
		{
			name: "prohibited content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{},
				FinishReason: genai.FinishReasonProhibitedContent,
			}}},
			want: domain.GenerationBlocked,
		},
		{
			name: "blocked safety rating",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:       &genai.Content{},
				FinishReason:  genai.FinishReasonOther,
				SafetyRatings: []*genai.SafetyRating{{Category: genai.HarmCategoryDangerousContent, Blocked: true}},
			}}},
			want: domain.GenerationBlocked,
		},
		{
			name: "max tokens without text",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{},
				FinishReason: genai.FinishReasonMaxTokens,
			}}},
			want: domain.GenerationAbnormalFinish,
		},
		{
			name: "recitation",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content:      &genai.Content{},
				FinishReason: genai.FinishReasonRecitation,
			}}},
			want: domain.GenerationAbnormalFinish,
		},
		{
			name: "no candidates",
			resp: &genai.GenerateContentResponse{},
			want: domain.GenerationNoContent,
		},
		{
			name: "whitespace text with stop",
			resp: textResponse("  \n", genai.FinishReasonStop),
			want: domain.GenerationNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(&fakeModels{resp: tt.resp}, nil)

			text, err := c.Generate(context.Background(), "docs", "Widget")
			assert.Empty(t, text)
			require.Error(t, err)
			assert.Equal(t, tt.want, domain.GenerationKindOf(err))
		})
	}
}

func TestGenerate_NilResponse(t *testing.T) {
	c := newTestClient(&fakeModels{}, nil)

	_, err := c.Generate(context.Background(), "docs", "Widget")
	assert.Equal(t, domain.GenerationNoContent, domain.GenerationKindOf(err))
}

func TestGenerate_TransportError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	c := newTestClient(&fakeModels{err: cause}, nil)

	_, err := c.Generate(context.Background(), "docs", "Widget")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)

	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.GenerationTransport, genErr.Kind)
	assert.Zero(t, genErr.StatusCode)
}

func TestGenerate_APIErrorStatus(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		wantAuth bool
	}{
		{"unauthorized", 401, true},
		{"forbidden", 403, true},
		{"server error", 500, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := genai.APIError{Code: tt.code, Message: "request failed", Status: "ERR"}
			c := newTestClient(&fakeModels{err: apiErr}, nil)

			_, err := c.Generate(context.Background(), "docs", "Widget")

			var genErr *domain.GenerationError
			require.ErrorAs(t, err, &genErr)
			assert.Equal(t, domain.GenerationTransport, genErr.Kind)
			assert.Equal(t, tt.code, genErr.StatusCode)
			if tt.wantAuth {
				assert.Contains(t, genErr.Message, "authentication failed")
			} else {
				assert.NotContains(t, genErr.Message, "authentication failed")
			}
		})
	}
}

func TestGenerate_WarnsOnTruncatedOutput(t *testing.T) {
	var buf bytes.Buffer
	c := newTestClient(&fakeModels{resp: textResponse("# Widget\npartial", genai.FinishReasonMaxTokens)}, &buf)

	text, err := c.Generate(context.Background(), "docs", "Widget")
	require.NoError(t, err)
	assert.Equal(t, "# Widget\npartial", text)
	assert.Contains(t, buf.String(), "Response finished abnormally")
	assert.Contains(t, buf.String(), "MAX_TOKENS")
}

func TestGenerate_WarnsOnMissingHeading(t *testing.T) {
	var buf bytes.Buffer
	c := newTestClient(&fakeModels{resp: textResponse("Here is your cheatsheet", genai.FinishReasonStop)}, &buf)

	text, err := c.Generate(context.Background(), "docs", "Widget")
	require.NoError(t, err)
	assert.Equal(t, "Here is your cheatsheet", text)
	assert.Contains(t, buf.String(), "does not start with the expected heading")
}

func TestGenerate_NoWarningForWellFormedDocument(t *testing.T) {
	var buf bytes.Buffer
	c := newTestClient(&fakeModels{resp: textResponse("# Widget\n", genai.FinishReasonStop)}, &buf)

	_, err := c.Generate(context.Background(), "docs", "Widget")
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "Calling generative API")
}
