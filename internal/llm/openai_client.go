package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

type openAIClient struct {
	model  string
	client *openai.Client
}

func newOpenAIClient(apiKey, base, model string, httpClient *http.Client) *openAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if base != "" {
		cfg.BaseURL = base
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &openAIClient{model: model, client: openai.NewClientWithConfig(cfg)}
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("OpenAI (%s)", c.model)
}

func (c *openAIClient) Model() string { return c.model }

func (c *openAIClient) Generate(ctx context.Context, req Request) (Response, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	var messages []openai.ChatCompletionMessage
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	})
	if err != nil {
		return Response{}, fmt.Errorf("openai API error: %w", err)
	}

	var out Response
	for i, choice := range resp.Choices {
		out.Candidates = append(out.Candidates, Candidate{FinishReason: normalizeFinishReason(string(choice.FinishReason))})
		if i == 0 {
			out.Text = choice.Message.Content
		}
	}
	return out, nil
}
