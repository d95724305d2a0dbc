package narrator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/user/gosec-posture/pkg/engine"
)

// Message represents a chat message
type Message struct {
	Role    string // "system", "user", "model"
	Content string
}

// LLMProvider defines the interface for different AI models
type LLMProvider interface {
	GenerateResponse(ctx context.Context, history []Message) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

const defaultMaxAttempts = 2

// Request is one narrative generation job
type Request struct {
	Variant   engine.Variant
	Responses engine.ResponseSet
	// Baseline is optional; when set its findings are given to the model as the starting point.
	Baseline *engine.Baseline
}

// Result holds the raw narrative and the findings recovered from it
type Result struct {
	Narrative string
	Findings  []engine.Finding
	Attempts  int
}

// Narrator asks an LLM for a markdown risk narrative and parses it back into findings.
type Narrator struct {
	llm         LLMProvider
	catalog     *engine.Catalog
	parser      *engine.Parser
	maxAttempts int
	logger      *slog.Logger
}

type Option func(*Narrator)

// WithCatalog sets the catalog whose questions are listed in the prompt
func WithCatalog(c *engine.Catalog) Option {
	return func(n *Narrator) {
		if c != nil {
			n.catalog = c
		}
	}
}

// WithMaxAttempts bounds how many times the model is asked for a parseable report.
func WithMaxAttempts(n int) Option {
	return func(nr *Narrator) {
		if n > 0 {
			nr.maxAttempts = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(n *Narrator) {
		if l != nil {
			n.logger = l
		}
	}
}

// NewNarrator creates a narrator backed by the given LLM provider
func NewNarrator(llm LLMProvider, opts ...Option) *Narrator {
	n := &Narrator{
		llm:         llm,
		catalog:     engine.DefaultCatalog(),
		maxAttempts: defaultMaxAttempts,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.parser = engine.NewParser(engine.WithParserLogger(n.logger))
	return n
}

// Narrate sends the assessment to the model and parses the reply. If the reply
// holds no findings while the baseline has some, the model is asked again with
// a reminder of the report format.
func (n *Narrator) Narrate(ctx context.Context, req Request) (*Result, error) {
	prompt, err := BuildPrompt(n.catalog, req)
	if err != nil {
		return nil, err
	}

	history := []Message{
		{Role: "system", Content: GetSystemPrompt()},
		{Role: "user", Content: prompt},
	}

	expectFindings := req.Baseline == nil || len(req.Baseline.Findings) > 0

	var res Result
	for res.Attempts < n.maxAttempts {
		res.Attempts++

		text, err := n.llm.GenerateResponse(ctx, history)
		if err != nil {
			return nil, fmt.Errorf("narrative attempt %d: %w", res.Attempts, err)
		}
		res.Narrative = text
		res.Findings = n.parser.Parse(text)

		n.logger.Debug("narrative received",
			"attempt", res.Attempts,
			"bytes", len(text),
			"findings", len(res.Findings))

		if len(res.Findings) > 0 || !expectFindings {
			return &res, nil
		}

		history = append(history,
			Message{Role: "model", Content: text},
			Message{Role: "user", Content: formatReminder},
		)
	}

	n.logger.Warn("narrative contained no parseable findings", "attempts", res.Attempts)
	return &res, nil
}
