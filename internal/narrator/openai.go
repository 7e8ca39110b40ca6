package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	oaioption "github.com/openai/openai-go/option"
)

type OpenAI struct {
	client openai.Client
	model  string
}

func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(oaioption.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (o *OpenAI) Narrate(ctx context.Context, s Story) (string, error) {
	prompt, err := Prompt(s)
	if err != nil {
		return "", err
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.8),
		MaxTokens:   openai.Int(300),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
