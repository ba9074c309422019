package quiz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Seednode/foodfest/games"
)

const systemPrompt = "You are a quiz master who writes clean multiple-choice quizzes. You reply with JSON only."

// OpenAIConfig configures a provider backed by an OpenAI-compatible chat
// completions endpoint.
type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	Model      string
	Questions  int
	Options    int
	MaxRetries int
	HTTPClient *http.Client
}

type OpenAIProvider struct {
	client    openai.Client
	model     string
	questions int
	options   int
}

func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("model is required")
	}
	if cfg.Questions < 1 {
		cfg.Questions = 5
	}
	if cfg.Options < 2 {
		cfg.Options = 3
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
	}
	if endpoint := strings.TrimSpace(cfg.Endpoint); endpoint != "" {
		opts = append(opts, option.WithBaseURL(endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIProvider{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		questions: cfg.Questions,
		options:   cfg.Options,
	}, nil
}

func (p *OpenAIProvider) prompt(topic string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate EXACTLY %d multiple-choice questions on %q.\n", p.questions, topic)
	b.WriteString("Rules:\n")
	b.WriteString("- Return ONLY valid JSON\n")
	b.WriteString("- No explanations, no markdown\n")
	fmt.Fprintf(&b, "- Each question must have exactly %d options\n", p.options)
	b.WriteString("- The answer must be copied verbatim from the options\n\n")
	b.WriteString("JSON format:\n")
	b.WriteString(`[{"question": "...", "options": ["A", "B", "C"], "answer": "A"}]`)

	return b.String()
}

func (p *OpenAIProvider) Generate(ctx context.Context, topic string) ([]Question, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(p.prompt(topic)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", games.ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", games.ErrGenerationFailed)
	}

	return ParseQuestions(resp.Choices[0].Message.Content, p.options)
}
