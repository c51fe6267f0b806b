package model

import (
	"testing"
	"time"
)

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	wantKeys := []string{"Alt", "Control", "ArrowRight", "Escape", "q"}
	if len(settings.KeyboardSteps) != len(wantKeys) {
		t.Fatalf("keyboard steps = %v, want %v", settings.KeyboardSteps, wantKeys)
	}
	for index, key := range wantKeys {
		if settings.KeyboardSteps[index] != key {
			t.Fatalf("keyboard step %d = %q, want %q", index, settings.KeyboardSteps[index], key)
		}
	}
	if settings.KeyboardTimeout != 5*time.Second {
		t.Errorf("keyboard timeout = %v, want 5s", settings.KeyboardTimeout)
	}
	if settings.MouseTimeout != 10*time.Second {
		t.Errorf("mouse timeout = %v, want 10s", settings.MouseTimeout)
	}
	if settings.CornerThreshold != 50 {
		t.Errorf("corner threshold = %v, want 50", settings.CornerThreshold)
	}
	if !settings.Fullscreen {
		t.Error("fullscreen should default to true")
	}
	if settings.Game != "bubbles" {
		t.Errorf("game = %q, want bubbles", settings.Game)
	}
}

func TestDefaultMouseSequenceOrder(t *testing.T) {
	sequence := DefaultMouseSequence()
	want := []string{
		string(CornerTopLeft),
		string(CornerTopRight),
		string(CornerBottomRight),
		string(CornerBottomLeft),
	}
	if len(sequence.Steps) != len(want) {
		t.Fatalf("mouse steps = %v, want %v", sequence.Steps, want)
	}
	for index, corner := range want {
		if sequence.Steps[index] != corner {
			t.Fatalf("mouse step %d = %q, want %q", index, sequence.Steps[index], corner)
		}
	}
}

func TestSettingsGeometryKeepsProvisionalSize(t *testing.T) {
	settings := DefaultSettings()
	settings.CornerThreshold = 120

	geometry := settings.Geometry()
	if geometry.Width != 1920 || geometry.Height != 1080 {
		t.Fatalf("geometry size = %vx%v, want 1920x1080", geometry.Width, geometry.Height)
	}
	if geometry.CornerThreshold != 120 {
		t.Fatalf("corner threshold = %v, want 120", geometry.CornerThreshold)
	}

	settings.CornerThreshold = 0
	if got := settings.Geometry().CornerThreshold; got != 50 {
		t.Fatalf("corner threshold fallback = %v, want 50", got)
	}
}
