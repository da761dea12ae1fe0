package parse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"hours and minutes", "1 h 23 min", 83},
		{"minutes only", "45 min", 45},
		{"hours only", "2 h", 120},
		{"no spaces", "1h5min", 65},
		{"empty", "", 0},
		{"seconds only", "5 s", 0},
		{"minutes and seconds", "30 min 12 s", 30},
		{"garbage", "n/a", 0},
		{"overflowing digits", "99999999999999999999999 min", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseDuration(tt.input))
		})
	}
}

func TestParseDuration_HoursMinutesGrid(t *testing.T) {
	for h := 0; h <= 3; h++ {
		for _, m := range []int{0, 1, 30, 59} {
			text := fmt.Sprintf("%d h %d min", h, m)
			assert.Equal(t, h*60+m, ParseDuration(text), text)
		}
	}
}

func TestParseTime12(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"afternoon with dots", "2:30 p.m.", 870},
		{"midnight", "12:00 a.m.", 0},
		{"noon quarter", "12:15 p.m.", 735},
		{"morning", "9:05 a.m.", 545},
		{"uppercase", "7:00 PM", 1140},
		{"no space", "7:00pm", 1140},
		{"spaced suffix", "3:10 p. m.", 910},
		{"missing suffix", "14:30", 0},
		{"empty", "", 0},
		{"garbage", "tarde", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTime12(tt.input))
		})
	}
}

func TestJoinHour(t *testing.T) {
	h, ok := JoinHour("12:40 a.m.")
	assert.True(t, ok)
	assert.Equal(t, 0, h)

	h, ok = JoinHour("2:30 p.m.")
	assert.True(t, ok)
	assert.Equal(t, 14, h)

	_, ok = JoinHour("sin dato")
	assert.False(t, ok)
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0m"},
		{45, "45m"},
		{59.6, "1h 00m"},
		{65, "1h 05m"},
		{125.4, "2h 05m"},
		{-5, "-5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatMinutes(tt.input))
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "2:30 p.m.", FormatClock(870))
	assert.Equal(t, "12:15 p.m.", FormatClock(735))
	assert.Equal(t, "9:05 a.m.", FormatClock(545))
	assert.Equal(t, "-", FormatClock(0))
	assert.Equal(t, 870, ParseTime12(FormatClock(870)))
}
