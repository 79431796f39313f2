// Package confidential defines the confidentiality levels applied to
// case material (files, notes, reports).
package confidential

import "fmt"

// Level categorizes how widely a record may be shared.
type Level string

// Confidentiality levels, from least to most restricted.
const (
	LevelPublic     Level = "public"
	LevelInternal   Level = "internal"
	LevelRestricted Level = "restricted"
)

// Default is applied when a request does not specify a level.
const Default = LevelInternal

// Parse validates a raw level string, returning Default for empty input.
func Parse(s string) (Level, error) {
	if s == "" {
		return Default, nil
	}

	level := Level(s)
	switch level {
	case LevelPublic, LevelInternal, LevelRestricted:
		return level, nil
	}
	return "", fmt.Errorf("unknown confidentiality level: %q", s)
}

// Valid reports whether the level is one of the defined constants.
func (l Level) Valid() bool {
	switch l {
	case LevelPublic, LevelInternal, LevelRestricted:
		return true
	}
	return false
}
