package narrator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaProvider talks to a local Ollama server
type OllamaProvider struct {
	client    *api.Client
	modelName string
}

func NewOllamaProvider(baseURL, modelName string) (*OllamaProvider, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	if modelName == "" {
		modelName = "llama3.2"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url: %w", err)
	}

	return &OllamaProvider{
		client:    api.NewClient(u, http.DefaultClient),
		modelName: modelName,
	}, nil
}

func (o *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	resp, err := o.client.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func (o *OllamaProvider) GenerateResponse(ctx context.Context, history []Message) (string, error) {
	messages := make([]api.Message, 0, len(history))
	for _, m := range history {
		role := m.Role
		if role == "model" {
			role = "assistant"
		}
		messages = append(messages, api.Message{Role: role, Content: m.Content})
	}

	stream := false
	var final api.ChatResponse
	err := o.client.Chat(ctx, &api.ChatRequest{
		Model:    o.modelName,
		Messages: messages,
		Stream:   &stream,
		Options:  map[string]any{"temperature": 0},
	}, func(resp api.ChatResponse) error {
		final = resp
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat error: %w", err)
	}
	return final.Message.Content, nil
}
