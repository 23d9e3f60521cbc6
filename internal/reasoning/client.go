// Package reasoning wraps the external reasoning service behind a single
// prompt-in, text-out call. Timeouts and HTTP errors surface as one
// failure signal; callers decide whether to retry.
package reasoning

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"

	"swipeengine/internal/config"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"
const defaultOpenAIModel = "gpt-4o-mini"

type Client interface {
	Call(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

func NewClient(cfg config.Config) (Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		model := cfg.LLMModel
		if model == "" {
			model = defaultOpenAIModel
		}
		return &openAIClient{client: openai.NewClient(cfg.OpenAIAPIKey), model: model}, nil
	case "anthropic":
		model := cfg.LLMModel
		if model == "" {
			model = defaultAnthropicModel
		}
		return &anthropicClient{client: anthropic.NewClient(option.WithAPIKey(cfg.AnthropicAPIKey)), model: model}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

// --- Anthropic ---

type anthropicClient struct {
	client anthropic.Client
	model  string
}

func (c *anthropicClient) Call(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		log.Printf("reasoning anthropic error: %v", err)
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			log.Printf("reasoning anthropic response size=%d tokens_in=%d tokens_out=%d cache_read=%d",
				len(block.Text), message.Usage.InputTokens, message.Usage.OutputTokens, message.Usage.CacheReadInputTokens)
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Anthropic response")
}

// --- OpenAI ---

type openAIClient struct {
	client *openai.Client
	model  string
}

func (c *openAIClient) Call(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		log.Printf("reasoning openai error: %v", err)
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	log.Printf("reasoning openai response size=%d tokens_in=%d tokens_out=%d",
		len(resp.Choices[0].Message.Content), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}
