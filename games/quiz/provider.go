package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Seednode/foodfest/games"
)

// Provider produces questions about a topic. An empty result is treated
// the same as a failure by callers.
type Provider interface {
	Generate(ctx context.Context, topic string) ([]Question, error)
}

type ProviderFunc func(ctx context.Context, topic string) ([]Question, error)

func (f ProviderFunc) Generate(ctx context.Context, topic string) ([]Question, error) {
	return f(ctx, topic)
}

// ParseQuestions extracts questions from model output. The output is
// expected to be a JSON array of {"question","options","answer"} objects,
// optionally wrapped in a markdown code fence or a {"questions": [...]}
// object.
func ParseQuestions(raw string, optionCount int) ([]Question, error) {
	text := unfence(raw)
	if text == "" {
		return nil, games.ErrNoQuestions
	}

	if !gjson.Valid(text) {
		if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start >= 0 && end > start {
			text = text[start : end+1]
		}
		if !gjson.Valid(text) {
			return nil, fmt.Errorf("%w: output is not valid JSON", games.ErrInvalidFormat)
		}
	}

	doc := gjson.Parse(text)
	if doc.IsObject() {
		doc = doc.Get("questions")
	}
	if !doc.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array of questions", games.ErrInvalidFormat)
	}

	items := doc.Array()
	if len(items) == 0 {
		return nil, games.ErrNoQuestions
	}

	questions := make([]Question, 0, len(items))
	for i, item := range items {
		q, err := parseQuestion(item)
		if err == nil {
			err = q.Validate(optionCount)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", games.ErrInvalidFormat, i+1, err)
		}
		questions = append(questions, q)
	}

	return questions, nil
}

func parseQuestion(item gjson.Result) (Question, error) {
	if !item.IsObject() {
		return Question{}, fmt.Errorf("not an object")
	}

	prompt := item.Get("question")
	options := item.Get("options")
	answer := item.Get("answer")

	switch {
	case prompt.Type != gjson.String:
		return Question{}, fmt.Errorf("missing question")
	case !options.IsArray():
		return Question{}, fmt.Errorf("missing options")
	case answer.Type != gjson.String:
		return Question{}, fmt.Errorf("missing answer")
	}

	q := Question{
		Prompt: strings.TrimSpace(prompt.String()),
		Answer: strings.TrimSpace(answer.String()),
	}
	for _, o := range options.Array() {
		if o.Type != gjson.String {
			return Question{}, fmt.Errorf("option %s is not a string", o.Raw)
		}
		q.Options = append(q.Options, strings.TrimSpace(o.String()))
	}

	return q, nil
}

func unfence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	return strings.TrimSpace(text)
}
