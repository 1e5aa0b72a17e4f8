package translate

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 4096

// implements Translator using Anthropic Claude
type AnthropicTranslator struct {
	model   anthropic.Model
	options Options
}

func NewAnthropicTranslator(opts Options) *AnthropicTranslator {
	model := anthropic.Model(opts.Model)
	if opts.Model == "" {
		model = anthropic.ModelClaudeHaiku4_5
	}

	return &AnthropicTranslator{
		model:   model,
		options: opts,
	}
}

func (t *AnthropicTranslator) Translate(
	ctx context.Context,
	text, targetLanguage, apiKey string,
) (string, error) {
	if err := requireAPIKey(ProviderAnthropic, apiKey); err != nil {
		return "", err
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	maxTokens := t.options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	message, err := client.Messages.New(
		ctx,
		anthropic.MessageNewParams{
			Model:     t.model,
			MaxTokens: maxTokens,
			System: []anthropic.TextBlockParam{
				{Text: BuildSystemPrompt(t.options, targetLanguage)},
			},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(
					anthropic.NewTextBlock(text),
				),
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}

	return t.parseResponse(message, text)
}

func (t *AnthropicTranslator) parseResponse(
	message *anthropic.Message,
	input string,
) (string, error) {
	if message == nil || len(message.Content) == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	return responseOrInput(responseText, input), nil
}
