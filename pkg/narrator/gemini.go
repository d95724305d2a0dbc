package narrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiProvider is safe for concurrent use; each request gets its own model
// handle so the system instruction is never shared between calls.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

func NewGeminiProvider(ctx context.Context, apiKey string, modelName string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	return &GeminiProvider{client: client, modelName: modelName}, nil
}

func (g *GeminiProvider) newModel(system *genai.Content) *genai.GenerativeModel {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(0)
	model.SystemInstruction = system
	return model
}

// geminiContents splits history into the system instruction and chat turns.
func geminiContents(history []Message) (system *genai.Content, cs []*genai.Content) {
	for _, msg := range history {
		switch msg.Role {
		case "system":
			system = &genai.Content{Parts: []genai.Part{genai.Text(msg.Content)}}
		case "model":
			cs = append(cs, &genai.Content{Parts: []genai.Part{genai.Text(msg.Content)}, Role: "model"})
		default:
			cs = append(cs, &genai.Content{Parts: []genai.Part{genai.Text(msg.Content)}, Role: "user"})
		}
	}
	return system, cs
}

func (g *GeminiProvider) ListModels(ctx context.Context) ([]string, error) {
	iter := g.client.ListModels(ctx)
	var names []string
	for {
		m, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		if strings.Contains(m.Name, "gemini") {
			// "models/gemini-pro" -> "gemini-pro"
			names = append(names, strings.TrimPrefix(m.Name, "models/"))
		}
	}
	return names, nil
}

func (g *GeminiProvider) GenerateResponse(ctx context.Context, history []Message) (string, error) {
	system, cs := geminiContents(history)
	if len(cs) == 0 {
		return "", fmt.Errorf("empty history")
	}

	session := g.newModel(system).StartChat()
	session.History = cs[:len(cs)-1]
	last := cs[len(cs)-1]

	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response")
	}
	return sb.String(), nil
}

func (g *GeminiProvider) Close() {
	g.client.Close()
}
