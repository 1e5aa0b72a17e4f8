package translate

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/genai"
)

// implements Translator using Google Gemini
type GeminiTranslator struct {
	model   string
	options Options
}

func NewGeminiTranslator(opts Options) *GeminiTranslator {
	model := opts.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	return &GeminiTranslator{
		model:   model,
		options: opts,
	}
}

func (t *GeminiTranslator) Translate(
	ctx context.Context,
	text, targetLanguage, apiKey string,
) (string, error) {
	if err := requireAPIKey(ProviderGemini, apiKey); err != nil {
		return "", err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(
			BuildSystemPrompt(t.options, targetLanguage),
			genai.RoleUser,
		),
	}
	if t.options.MaxTokens > 0 {
		config.MaxOutputTokens = geminiMaxTokens(t.options.MaxTokens)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := client.Models.GenerateContent(ctx, t.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}

	return t.parseResponse(result, text)
}

func (t *GeminiTranslator) parseResponse(
	result *genai.GenerateContentResponse,
	input string,
) (string, error) {
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var responseText string
	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.Text != "" && !part.Thought {
				responseText += part.Text
			}
		}
		if responseText != "" {
			break
		}
	}

	return responseOrInput(responseText, input), nil
}

// the Gemini API takes an int32 token cap
func geminiMaxTokens(n int64) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(n)
}
