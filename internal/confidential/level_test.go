package confidential_test

import (
	"testing"

	"github.com/mkarlsen/casefile/internal/confidential"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected confidential.Level
		wantErr  bool
	}{
		{"empty defaults", "", confidential.LevelInternal, false},
		{"public", "public", confidential.LevelPublic, false},
		{"internal", "internal", confidential.LevelInternal, false},
		{"restricted", "restricted", confidential.LevelRestricted, false},
		{"unknown", "secret", "", true},
		{"case sensitive", "Public", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, err := confidential.Parse(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if level != tt.expected {
				t.Errorf("got %q, want %q", level, tt.expected)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, level := range []confidential.Level{
		confidential.LevelPublic,
		confidential.LevelInternal,
		confidential.LevelRestricted,
	} {
		if !level.Valid() {
			t.Errorf("%q should be valid", level)
		}
	}

	if confidential.Level("secret").Valid() {
		t.Error("unknown level should not be valid")
	}
}
