package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"telegram-group-guardian/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*OpenAIAdapter)(nil)

type OpenAIAdapter struct {
	client       openai.Client
	defaultModel string
	maxOut       int
}

func NewOpenAIAdapter(apiKey, defaultModel string, maxOut int) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai: empty api key")
	}
	return &OpenAIAdapter{
		client:       openai.NewClient(option.WithAPIKey(apiKey)),
		defaultModel: defaultModel,
		maxOut:       maxOut,
	}, nil
}

func (o *OpenAIAdapter) Provider() string { return "openai" }

// CountTokens runs tiktoken locally; the API has no counting endpoint.
func (o *OpenAIAdapter) CountTokens(_ context.Context, model string, messages []adapter.Message) (int, error) {
	enc, err := tiktoken.EncodingForModel(modelOrDefault(model, o.defaultModel))
	if err != nil {
		// Models newer than the tiktoken tables fall back to the common base.
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return 0, err
		}
	}
	n := 0
	for _, m := range messages {
		n += len(enc.Encode(m.Content, nil, nil))
	}
	return n, nil
}

func (o *OpenAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(modelOrDefault(model, o.defaultModel)),
		Messages: toOpenAIMessages(messages),
	}
	if o.maxOut > 0 {
		params.MaxCompletionTokens = openai.Int(int64(o.maxOut))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", adapter.Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", adapter.Usage{}, errors.New("openai: empty response")
	}

	u := adapter.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	return resp.Choices[0].Message.Content, u, nil
}

func toOpenAIMessages(msgs []adapter.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch strings.ToLower(m.Role) {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant", "model":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
