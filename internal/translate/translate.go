package translate

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrUnknownProvider = errors.New("unknown translation provider")

// interface for text translation. text is a request blob of
// "[<number>] <text>" lines; the returned string is the raw model output.
type Translator interface {
	Translate(
		ctx context.Context,
		text, targetLanguage, apiKey string,
	) (string, error)
}

// translation service provider
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderDeepSeek  Provider = "deepseek"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// static description of a provider
type Info struct {
	ID             Provider
	Name           string
	RequiresAPIKey bool
	DefaultModel   string
	EnvVar         string
}

var providers = []Info{
	{
		ID:             ProviderOpenAI,
		Name:           "OpenAI",
		RequiresAPIKey: true,
		DefaultModel:   "gpt-4o-mini",
		EnvVar:         "OPENAI_API_KEY",
	},
	{
		ID:             ProviderDeepSeek,
		Name:           "DeepSeek",
		RequiresAPIKey: true,
		DefaultModel:   "deepseek-chat",
		EnvVar:         "DEEPSEEK_API_KEY",
	},
	{
		ID:             ProviderAnthropic,
		Name:           "Anthropic",
		RequiresAPIKey: true,
		DefaultModel:   "claude-haiku-4-5",
		EnvVar:         "ANTHROPIC_API_KEY",
	},
	{
		ID:             ProviderGemini,
		Name:           "Google Gemini",
		RequiresAPIKey: true,
		DefaultModel:   "gemini-2.5-flash",
		EnvVar:         "GEMINI_API_KEY",
	},
}

const deepSeekBaseURL = "https://api.deepseek.com"

func Providers() []Info {
	out := make([]Info, len(providers))
	copy(out, providers)
	return out
}

func Lookup(id Provider) (Info, error) {
	for _, p := range providers {
		if p.ID == id {
			return p, nil
		}
	}
	return Info{}, fmt.Errorf("%w: %s", ErrUnknownProvider, id)
}

type Options struct {
	Model          string
	Prompt         string // extra instructions appended to the system prompt
	SourceLanguage string
	BaseURL        string // OpenAI-compatible endpoints only
	MaxTokens      int64
}

// creates Translator based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	opts Options,
) (Translator, error) {
	info, err := Lookup(provider)
	if err != nil {
		return nil, err
	}
	if opts.Model == "" {
		opts.Model = info.DefaultModel
	}

	switch provider {
	case ProviderOpenAI:
		return NewOpenAITranslator(opts), nil
	case ProviderDeepSeek:
		if opts.BaseURL == "" {
			opts.BaseURL = deepSeekBaseURL
		}
		tr := NewOpenAITranslator(opts)
		tr.provider = ProviderDeepSeek
		return tr, nil
	case ProviderAnthropic:
		return NewAnthropicTranslator(opts), nil
	case ProviderGemini:
		return NewGeminiTranslator(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
}

// BuildSystemPrompt creates the system prompt shared by every provider. The
// marker rules must stay in step with the pipeline's response parser.
func BuildSystemPrompt(opts Options, targetLanguage string) string {
	var sb strings.Builder

	target := ResolveLanguage(targetLanguage)
	if opts.SourceLanguage != "" {
		sb.WriteString(fmt.Sprintf(
			"You are a translator. Translate the following %s subtitles to %s.\n",
			ResolveLanguage(opts.SourceLanguage),
			target,
		))
	} else {
		sb.WriteString(fmt.Sprintf(
			"You are a translator. Translate the following subtitles to %s.\n",
			target,
		))
	}

	sb.WriteString("Rules:\n")
	sb.WriteString("- Maintain the same tone and meaning\n")
	sb.WriteString("- Keep the [number] prefix for each line\n")
	sb.WriteString("- Translate only the text after the [number]\n")
	sb.WriteString("- Preserve line breaks\n")
	sb.WriteString("- Only respond with the translations, no explanations")

	if opts.Prompt != "" {
		sb.WriteString(fmt.Sprintf("\n\nAdditional instructions: %s", opts.Prompt))
	}

	return sb.String()
}

var codeFenceRegex = regexp.MustCompile("```[a-zA-Z]*[ \\t]*")

// strips markdown code fences some models wrap their answer in
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = codeFenceRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// result text for a model answer; an empty answer falls back to the request
// text so the batch stays untranslated rather than blank
func responseOrInput(response, input string) string {
	cleaned := cleanResponse(response)
	if cleaned == "" {
		return input
	}
	return cleaned
}

func requireAPIKey(provider Provider, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return fmt.Errorf("%s: API key is required", provider)
	}
	return nil
}
