package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const openAIDefaultModel = "gpt-4o-mini"

// resultSchemaJSON is the structured-output contract the model must meet.
// Validated locally as well; providers occasionally return prose despite a
// schema-constrained request.
const resultSchemaJSON = `{
  "type": "object",
  "required": ["cleaned_text", "removed_words"],
  "additionalProperties": false,
  "properties": {
    "cleaned_text": {"type": "string"},
    "removed_words": {"type": "array", "items": {"type": "string"}}
  }
}`

var resultSchema = jsonschema.MustCompileString("classify-result.schema.json", resultSchemaJSON)

// OpenAIConfig configures the OpenAI-backed classifier.
type OpenAIConfig struct {
	APIKey     string
	Model      string
	BaseURL    string        // Optional override
	RateLimit  float64       // Requests per second
	MaxRetries int           // Default 3
	RetryDelay time.Duration // Default 2s
	Timeout    time.Duration // Default 120s
	HTTPClient *http.Client  // Optional (tests)
}

// OpenAIClassifier cleans paragraphs through the OpenAI chat API using
// schema-constrained JSON output.
type OpenAIClassifier struct {
	model      string
	maxRetries int
	retryDelay time.Duration
	limiter    *RateLimiter
	client     openai.Client
}

// NewOpenAIClassifier creates an OpenAI classifier.
func NewOpenAIClassifier(cfg OpenAIConfig) *OpenAIClassifier {
	if cfg.Model == "" {
		cfg.Model = openAIDefaultModel
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIClassifier{
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		limiter:    NewRateLimiter(cfg.RateLimit),
		client:     openai.NewClient(opts...),
	}
}

// Name returns the classifier identifier.
func (c *OpenAIClassifier) Name() string {
	return "openai"
}

// Classify sends one paragraph through the chat API. Transport failures and
// unparseable output are retried with a fixed delay up to the configured
// attempt count.
func (c *OpenAIClassifier) Classify(ctx context.Context, req *Request) (*Result, error) {
	if req == nil || req.Text == "" {
		return nil, fmt.Errorf("classify: request text is required")
	}

	var result *Result
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(err)
			}
			r, err := c.classifyOnce(ctx, req)
			if err != nil {
				return err
			}
			result = r
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return result, nil
}

func (c *OpenAIClassifier) classifyOnce(ctx context.Context, req *Request) (*Result, error) {
	var schemaDoc map[string]any
	if err := json.Unmarshal([]byte(resultSchemaJSON), &schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to decode result schema: %w", err)
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(req)),
			openai.UserMessage(req.Text),
		},
		Temperature: openai.Float(0),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "paragraph_filter",
					Strict: openai.Bool(true),
					Schema: schemaDoc,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	return parseResult(resp.Choices[0].Message.Content)
}

// parseResult decodes model output into a Result, with lightweight recovery
// for markdown code fences, and validates it against the result schema.
func parseResult(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty classifier output")
	}
	if stripped := stripCodeFences(content); stripped != "" {
		content = stripped
	}

	var doc any
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse classifier output: %w", err)
	}
	if err := resultSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("classifier output does not match schema: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("failed to decode classifier output: %w", err)
	}
	return &result, nil
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// sortedTerms sorts the term list so prompts are deterministic across runs.
func sortedTerms(terms []string) []string {
	sort.Strings(terms)
	return terms
}

// systemPrompt renders the filtering instructions for one request.
func systemPrompt(req *Request) string {
	var b strings.Builder
	b.WriteString("You edit book paragraphs to meet a content rating. ")
	b.WriteString("Rewrite the paragraph minimally, preserving meaning, tone, and length. ")
	b.WriteString("If nothing needs changing, return the paragraph unchanged.\n\n")

	fmt.Fprintf(&b, "Profanity target: %s. Sexual content target: %s. Violence target: %s.\n",
		RatingLabel(req.ProfanityLevel), RatingLabel(req.SexualLevel), RatingLabel(req.ViolenceLevel))

	selected := MergeWordSelections(req.ProfanityLevel, req.FilterWords)
	var filtered []string
	for term, on := range selected {
		if on {
			filtered = append(filtered, term)
		}
	}
	if len(filtered) > 0 {
		fmt.Fprintf(&b, "Soften or remove these terms wherever they appear: %s.\n",
			strings.Join(sortedTerms(filtered), ", "))
	}

	b.WriteString("\nRespond with JSON: {\"cleaned_text\": string, \"removed_words\": [string]}. ")
	b.WriteString("removed_words lists every term you softened or removed; empty if none.")
	return b.String()
}
