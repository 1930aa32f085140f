package usecase

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"docrag/internal/domain"
	"docrag/internal/port"
)

//go:embed templates/rag_prompt.txt
var promptTemplates embed.FS

// ChatUseCase answers questions over the indexed corpus: retrieve the
// top-k passages, render them into the answering prompt, and hand the
// prompt to the generative model. Streaming output is forwarded
// fragment by fragment to the caller's sink.
type ChatUseCase struct {
	retrieve *RetrieveUseCase
	llm      port.LLM
	topK     int
	tmpl     *template.Template
}

type promptData struct {
	Context  string
	Question string
}

func NewChatUseCase(retrieve *RetrieveUseCase, llm port.LLM, topK int) (*ChatUseCase, error) {
	if topK <= 0 {
		topK = 3
	}

	content, err := promptTemplates.ReadFile("templates/rag_prompt.txt")
	if err != nil {
		return nil, fmt.Errorf("prompt template not found: %w", err)
	}
	tmpl, err := template.New("rag_prompt").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}

	return &ChatUseCase{
		retrieve: retrieve,
		llm:      llm,
		topK:     topK,
		tmpl:     tmpl,
	}, nil
}

// BuildPrompt renders the answering prompt from retrieved passages.
func (u *ChatUseCase) BuildPrompt(results domain.SearchResult, question string) (string, error) {
	data := promptData{
		Context:  strings.Join(results.Texts(), "\n\n"),
		Question: question,
	}

	var buf bytes.Buffer
	if err := u.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

// Answer retrieves context for question and generates a complete reply.
func (u *ChatUseCase) Answer(ctx context.Context, question string) (string, error) {
	prompt, err := u.prompt(ctx, question)
	if err != nil {
		return "", err
	}
	return u.llm.Generate(ctx, prompt)
}

// StreamAnswer retrieves context for question and streams the reply,
// invoking onDelta for each fragment.
func (u *ChatUseCase) StreamAnswer(ctx context.Context, question string, onDelta func(string) error) error {
	prompt, err := u.prompt(ctx, question)
	if err != nil {
		return err
	}
	return u.llm.Stream(ctx, prompt, onDelta)
}

func (u *ChatUseCase) prompt(ctx context.Context, question string) (string, error) {
	results, err := u.retrieve.Retrieve(ctx, question, u.topK)
	if err != nil {
		return "", fmt.Errorf("retrieval failed: %w", err)
	}
	return u.BuildPrompt(results, question)
}
