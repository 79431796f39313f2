package generation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// TemplateSection is the template material sent to the generator.
type TemplateSection struct {
	Title        string `json:"title"`
	Instructions string `json:"instructions"`
}

// FileContent is the source material sent to the generator.
type FileContent struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Request is the payload posted to the generation endpoint.
type Request struct {
	TemplateSections []TemplateSection `json:"template_sections"`
	FileContents     []FileContent     `json:"file_contents"`
	ProfileContext   string            `json:"profile_context,omitempty"`
}

// Response is the generation endpoint's reply.
type Response struct {
	Content string `json:"content"`
}

// Generator produces draft content from a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// NewGenerator returns an HTTP generator when an endpoint is
// configured, otherwise the local simulator.
func NewGenerator(cfg Config, logger *slog.Logger) Generator {
	if cfg.Endpoint == "" {
		logger.Info("no generation endpoint configured, using simulator")
		return &simulator{delay: cfg.SimulateDelayDuration()}
	}

	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.TimeoutDuration()).
		SetHeader("Content-Type", "application/json")

	return &httpGenerator{
		client: client,
		logger: logger.With("system", "generator"),
	}
}

type httpGenerator struct {
	client *resty.Client
	logger *slog.Logger
}

func (g *httpGenerator) Generate(ctx context.Context, req Request) (string, error) {
	var result Response

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/generate")
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("generation endpoint returned %s", resp.Status())
	}
	if result.Content == "" {
		return "", fmt.Errorf("generation endpoint returned empty content")
	}

	g.logger.Debug("generation complete",
		"sections", len(req.TemplateSections),
		"sources", len(req.FileContents),
		"bytes", len(result.Content))

	return result.Content, nil
}

// simulator stands in for the generation endpoint during development
// and testing. It waits a fixed delay and echoes the template structure
// with canned content.
type simulator struct {
	delay time.Duration
}

func (s *simulator) Generate(ctx context.Context, req Request) (string, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	sections := make([]Section, 0, len(req.TemplateSections))
	for _, ts := range req.TemplateSections {
		sections = append(sections, Section{
			Title:   ts.Title,
			Content: simulatedBody(ts.Instructions, len(req.FileContents)),
		})
	}
	if len(sections) == 0 {
		sections = append(sections,
			Section{Title: "Summary", Content: simulatedBody("", len(req.FileContents))},
			Section{Title: "Observations", Content: "No notable patterns in the selected period."},
		)
	}

	return RenderSections(sections), nil
}

func simulatedBody(instructions string, sourceCount int) string {
	body := fmt.Sprintf("Simulated draft based on %d source document(s).", sourceCount)
	if instructions != "" {
		body += " Guidance: " + instructions
	}
	return body
}
