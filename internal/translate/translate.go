package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Translator produces per-locale translations for a set of field values
// written in a single source locale. The result maps target locale to a map
// of field name to translated value.
type Translator interface {
	Translate(ctx context.Context, sourceLocale string, targets []string, fields map[string]string) (map[string]map[string]string, error)
}

// OpenAITranslator implements Translator against the OpenAI chat completion
// API. Responses are requested as a strict JSON object keyed by locale so the
// reply can be unmarshalled directly.
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

// NewOpenAITranslator builds a translator for the given API key and model.
func NewOpenAITranslator(apiKey, model string) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

const systemPrompt = "You are a translation engine for an e-commerce catalog. " +
	"Translate the given JSON field values from the source locale into each target locale. " +
	"Respond with a single JSON object mapping each target locale to an object with the same field names. " +
	"Do not add commentary."

func (t *OpenAITranslator) Translate(ctx context.Context, sourceLocale string, targets []string, fields map[string]string) (map[string]map[string]string, error) {
	if len(targets) == 0 || len(fields) == 0 {
		return map[string]map[string]string{}, nil
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("translate: marshal fields: %w", err)
	}

	userPrompt := fmt.Sprintf("Source locale: %s\nTarget locales: %s\nFields: %s",
		sourceLocale, strings.Join(targets, ", "), payload)

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("translate: completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("translate: completion returned no choices")
	}

	var out map[string]map[string]string
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return nil, fmt.Errorf("translate: decode completion payload: %w", err)
	}

	// Keep only the locales that were asked for; the model occasionally echoes
	// the source locale back.
	result := make(map[string]map[string]string, len(targets))
	for _, locale := range targets {
		if translated, ok := out[locale]; ok {
			result[locale] = translated
		}
	}
	return result, nil
}
