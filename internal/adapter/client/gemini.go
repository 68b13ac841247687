package client

import (
	"context"
	"fmt"

	"estate-core/internal/domain/entity"

	"google.golang.org/genai"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, projectID, location, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model}, nil
}

func NewGeminiClientFromClient(c *genai.Client, model string) *GeminiClient {
	return &GeminiClient{client: c, model: model}
}

func (g *GeminiClient) Generate(ctx context.Context, systemPrompt, userMessage string, maxTokens int32, temperature float32) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
		MaxOutputTokens:   maxTokens,
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(userMessage), cfg)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrGenerationUnavailable, err)
	}
	return result.Text(), nil
}
