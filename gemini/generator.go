// Package gemini implements embedding, generation and token counting on top
// of the Google Gemini API.
package gemini

import (
	"context"
	"iter"

	"github.com/fwojciec/campusqa"
	"google.golang.org/genai"
)

// DefaultModel is the generation model.
const DefaultModel = "gemini-2.5-flash"

var _ campusqa.Generator = (*Generator)(nil)

// Generator implements campusqa.Generator with streaming Gemini responses.
type Generator struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model, config: BuildConfig()}
}

// Generate streams the model's answer to prompt. Each yielded string is a
// non-empty text fragment; an error ends the sequence.
func (g *Generator) Generate(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if g.client == nil {
			yield("", campusqa.Errorf(campusqa.EINVALID, "gemini client required"))
			return
		}
		if prompt == "" {
			yield("", campusqa.Errorf(campusqa.EINVALID, "prompt required"))
			return
		}

		for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), g.config) {
			if err != nil {
				yield("", campusqa.Errorf(campusqa.ENETWORK, "gemini generate: %w", err))
				return
			}
			if resp == nil {
				continue
			}
			if text := resp.Text(); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
	}
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.4)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You are a helpful and knowledgeable assistant answering questions about a college from its public website. Answer based only on the context provided. Do not make up information. If the context does not contain the answer, say so clearly.",
			}},
		},
		Temperature: &temp,
	}
}
