package kiosk

import (
	"testing"
	"time"

	"keyplay/internal/core/model"
)

func TestStepDots(t *testing.T) {
	cases := []struct {
		name     string
		progress model.ExitProgress
		want     string
	}{
		{"idle", model.ExitProgress{CurrentStep: 0, TotalSteps: 4}, "○ ○ ○ ○"},
		{"two of five", model.ExitProgress{CurrentStep: 2, TotalSteps: 5}, "● ● ○ ○ ○"},
		{"complete", model.ExitProgress{CurrentStep: 4, TotalSteps: 4}, "● ● ● ●"},
		{"empty", model.ExitProgress{}, ""},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := stepDots(testCase.progress); got != testCase.want {
				t.Fatalf("stepDots(%+v) = %q, want %q", testCase.progress, got, testCase.want)
			}
		})
	}
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		remaining time.Duration
		want      string
	}{
		{0, ""},
		{-time.Second, ""},
		{900 * time.Millisecond, "00:00"},
		{4 * time.Second, "00:04"},
		{95 * time.Second, "01:35"},
	}
	for _, testCase := range cases {
		if got := formatRemaining(testCase.remaining); got != testCase.want {
			t.Fatalf("formatRemaining(%v) = %q, want %q", testCase.remaining, got, testCase.want)
		}
	}
}
