package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/ledgermate/ledgermate/internal/model"
)

const systemInstruction = `You are the extraction backend of a bookkeeping assistant for small
contracting businesses. Always answer with a single JSON object and nothing
else. Amounts are plain decimal strings without a currency sign. Dates are
YYYY-MM-DD. Leave a field empty if the message gives no evidence for it.`

// GeminiClient implements Client against Google's Gemini API in JSON mode.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: modelName}, nil
}

func (g *GeminiClient) ExtractRecord(ctx context.Context, text string, kind model.RecordKind) (map[string]string, error) {
	prompt := fmt.Sprintf(
		"Extract a %s record from this message. Fields: date, item, amount, store, category.\nMessage: %q",
		kind, text)
	var fields map[string]string
	if err := g.completeJSON(ctx, prompt, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (g *GeminiClient) SuggestCorrections(ctx context.Context, text string, partial map[string]string, problems []string) (map[string]string, error) {
	partialJSON, _ := json.Marshal(partial)
	prompt := fmt.Sprintf(
		"A bookkeeping record was extracted with problems.\nOriginal message: %q\nExtracted so far: %s\nProblems: %s\n"+
			"Return a JSON object with corrected values for the problem fields only.",
		text, partialJSON, strings.Join(problems, "; "))
	var fields map[string]string
	if err := g.completeJSON(ctx, prompt, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func (g *GeminiClient) ClassifyIntent(ctx context.Context, text string) (*IntentResult, error) {
	prompt := fmt.Sprintf(
		"Classify this question about business finances.\nQuestion: %q\n"+
			`Return JSON: {"intent": one of "profit","revenue","expenses","bills","unknown","other", `+
			`"job": job name if mentioned, "period": period if mentioned, `+
			`"response": a short answer for "other" intents}`,
		text)
	var result IntentResult
	if err := g.completeJSON(ctx, prompt, &result); err != nil {
		return nil, err
	}
	if result.Intent == "" {
		result.Intent = "unknown"
	}
	return &result, nil
}

func (g *GeminiClient) ExtractJobName(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(
		"This message starts a job (cost center). Extract the job name.\nMessage: %q\nReturn JSON: {\"job\": name}",
		text)
	var out struct {
		Job string `json:"job"`
	}
	if err := g.completeJSON(ctx, prompt, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Job), nil
}

func (g *GeminiClient) completeJSON(ctx context.Context, prompt string, out interface{}) error {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		return fmt.Errorf("completion call: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	// Some models wrap JSON in fences even in JSON mode.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadCompletion, err)
	}
	return nil
}
