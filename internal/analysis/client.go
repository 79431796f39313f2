package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Request is the payload posted to the analysis endpoint.
type Request struct {
	FileContents   []FileContent `json:"file_contents"`
	ProfileContext string        `json:"profile_context,omitempty"`
	PeriodStart    *string       `json:"period_start,omitempty"`
	PeriodEnd      *string       `json:"period_end,omitempty"`
}

// FileContent is one source document in an analysis request.
type FileContent struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Analyzer produces a structured result from a request.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// NewAnalyzer returns an HTTP analyzer when an endpoint is configured,
// otherwise the local simulator.
func NewAnalyzer(cfg Config, logger *slog.Logger) Analyzer {
	if cfg.Endpoint == "" {
		logger.Info("no analysis endpoint configured, using simulator")
		return &simulator{delay: cfg.SimulateDelayDuration()}
	}

	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.TimeoutDuration()).
		SetHeader("Content-Type", "application/json")

	return &httpAnalyzer{
		client: client,
		logger: logger.With("system", "analyzer"),
	}
}

type httpAnalyzer struct {
	client *resty.Client
	logger *slog.Logger
}

func (a *httpAnalyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	var result Result

	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/analyze")
	if err != nil {
		return nil, fmt.Errorf("analysis request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("analysis endpoint returned %s", resp.Status())
	}

	a.logger.Debug("analysis complete",
		"sources", len(req.FileContents),
		"incidents", len(result.Incidents),
		"patterns", len(result.Patterns))

	return &result, nil
}

// simulator stands in for the analysis endpoint during development and
// testing.
type simulator struct {
	delay time.Duration
}

func (s *simulator) Analyze(ctx context.Context, req Request) (*Result, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &Result{
		Summary: fmt.Sprintf(
			"Simulated analysis over %d source document(s). No real endpoint is configured.",
			len(req.FileContents),
		),
		Incidents: []CriticalIncident{},
		Patterns: []BehavioralPattern{
			{Pattern: "regular engagement", Frequency: "weekly", Trend: "stable"},
		},
	}, nil
}
