package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"claimdocs/internal/domain/models"
	"claimdocs/internal/domain/services"
)

// AnthropicDescriber generates document descriptions with Claude.
type AnthropicDescriber struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicDescriber creates a describer backed by the Anthropic API.
func NewAnthropicDescriber(apiKey, model string) (services.Describer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicDescriber{
		client: &client,
		model:  model,
	}, nil
}

const describerSystemPrompt = `You write one-sentence descriptions of insurance
claim documents for a claim handler's file list. Be factual and specific;
never speculate about the claim outcome. Respond with the description only.`

// Describe produces a short description from the document's metadata.
func (d *AnthropicDescriber) Describe(ctx context.Context, doc *models.Document) (string, error) {
	prompt := fmt.Sprintf(
		"File name: %s\nOriginal file name: %s\nCategory: %s\nContent type: %s\nSize: %d bytes\nUploaded by: %s",
		doc.FileName, doc.OriginalFileName, doc.Category, doc.ContentType, doc.Size, doc.UploadedBy,
	)

	message, err := d.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(d.model),
		MaxTokens: 200,
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: describerSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}

	var sb strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}

	desc := strings.TrimSpace(sb.String())
	if desc == "" {
		return "", fmt.Errorf("empty description returned")
	}
	return desc, nil
}
