package generation_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mkarlsen/casefile/internal/generation"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSimulatorEchoesTemplateStructure(t *testing.T) {
	gen := generation.NewGenerator(generation.Config{SimulateDelay: "1ms"}, discardLogger())

	content, err := gen.Generate(context.Background(), generation.Request{
		TemplateSections: []generation.TemplateSection{
			{Title: "Background", Instructions: "describe the context"},
			{Title: "Progress"},
		},
		FileContents: []generation.FileContent{{Name: "log.txt", Content: "entry"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	sections, ok := generation.ParseSections(content)
	if !ok {
		t.Fatal("simulated content did not parse into sections")
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if sections[0].Title != "Background" || sections[1].Title != "Progress" {
		t.Errorf("got titles %q, %q", sections[0].Title, sections[1].Title)
	}
	if !strings.Contains(sections[0].Content, "describe the context") {
		t.Errorf("instructions not reflected in %q", sections[0].Content)
	}
}

func TestSimulatorWithoutTemplate(t *testing.T) {
	gen := generation.NewGenerator(generation.Config{SimulateDelay: "1ms"}, discardLogger())

	content, err := gen.Generate(context.Background(), generation.Request{
		FileContents: []generation.FileContent{{Name: "a.txt", Content: "x"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	sections, ok := generation.ParseSections(content)
	if !ok || len(sections) == 0 {
		t.Fatal("expected canned sections")
	}
	if sections[0].Title != "Summary" {
		t.Errorf("got first title %q", sections[0].Title)
	}
}

func TestSimulatorHonorsContextCancellation(t *testing.T) {
	gen := generation.NewGenerator(generation.Config{SimulateDelay: "10s"}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gen.Generate(ctx, generation.Request{}); err == nil {
		t.Error("expected context error")
	}
}
