package translate

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// implements Translator using OpenAI Chat Completions. Any
// OpenAI-compatible endpoint (DeepSeek, local servers) works through
// Options.BaseURL.
type OpenAITranslator struct {
	provider Provider
	model    string
	options  Options
}

func NewOpenAITranslator(opts Options) *OpenAITranslator {
	model := opts.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &OpenAITranslator{
		provider: ProviderOpenAI,
		model:    model,
		options:  opts,
	}
}

func (t *OpenAITranslator) Translate(
	ctx context.Context,
	text, targetLanguage, apiKey string,
) (string, error) {
	if err := requireAPIKey(t.provider, apiKey); err != nil {
		return "", err
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if t.options.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(t.options.BaseURL))
	}
	client := openai.NewClient(reqOpts...)

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(BuildSystemPrompt(t.options, targetLanguage)),
			openai.UserMessage(text),
		},
		Model: t.model,
	}
	if t.options.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(t.options.MaxTokens)
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}

	return t.parseResponse(completion, text)
}

func (t *OpenAITranslator) parseResponse(
	completion *openai.ChatCompletion,
	input string,
) (string, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty response from %s", t.model)
	}

	return responseOrInput(completion.Choices[0].Message.Content, input), nil
}
