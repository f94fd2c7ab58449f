package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseCFPDate(t *testing.T) {
	tests := []struct {
		input string
		want  string // empty means no date
	}{
		{"", ""},
		{"TBA", ""},
		{"not a date", ""},
		{"(AoE)", ""},
		{"2024-05-01 (AoE)", "2024-05-01"},
		{"2024-05-01(AoE)", "2024-05-01"},
		{"2024-05-01", "2024-05-01"},
		{"2024/05/01", "2024-05-01"},
		{"May 1, 2024", "2024-05-01"},
		{"1 May 2024", "2024-05-01"},
		{"2024-05-01T12:00:00Z", "2024-05-01"},
		{"2024-05-01 (aoe)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseCFPDate(tt.input)
			if tt.want == "" {
				assert.False(t, ok, "ParseCFPDate(%q)", tt.input)
				return
			}
			assert.True(t, ok, "ParseCFPDate(%q)", tt.input)
			assert.Equal(t, tt.want, got.Format("2006-01-02"))
		})
	}
}

func TestParseCFPDateIgnoresTimezoneMarker(t *testing.T) {
	got, ok := ParseCFPDate("2024-05-01 (AoE)")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), got)
}
