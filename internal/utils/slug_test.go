// internal/utils/slug_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Sony WF-1000XM5", "sony-wf-1000xm5"},
		{"punctuation stripped", "Best Smartphones of 2026!", "best-smartphones-of-2026"},
		{"collapses whitespace", "  Galaxy   Watch  7 ", "galaxy-watch-7"},
		{"existing hyphens", "robot-vacuum-guide", "robot-vacuum-guide"},
		{"arabic preserved", "گوشی هوشمند", "گوشی-هوشمند"},
		{"symbols only", "!!!", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.input))
		})
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	slug := Slugify("Apple AirPods Pro (3rd Gen)")
	assert.Equal(t, slug, Slugify(slug))
}
