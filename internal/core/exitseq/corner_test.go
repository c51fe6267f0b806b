package exitseq

import (
	"testing"

	"keyplay/internal/core/model"
)

func TestClassifyCorner(t *testing.T) {
	geometry := model.ScreenGeometry{Width: 1920, Height: 1080, CornerThreshold: 50}

	cases := []struct {
		name   string
		x, y   float64
		token  model.CornerToken
		inside bool
	}{
		{"top left", 10, 10, model.CornerTopLeft, true},
		{"top right", 1910, 5, model.CornerTopRight, true},
		{"bottom right", 1900, 1070, model.CornerBottomRight, true},
		{"bottom left", 3, 1079, model.CornerBottomLeft, true},
		{"just inside threshold", 49, 49, model.CornerTopLeft, true},
		{"exactly at threshold", 50, 50, "", false},
		{"one axis off", 49, 200, "", false},
		{"center", 960, 540, "", false},
		{"right edge midheight", 1919, 540, "", false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			token, inside := ClassifyCorner(testCase.x, testCase.y, geometry)
			if inside != testCase.inside {
				t.Fatalf("ClassifyCorner(%v, %v) inside = %v, want %v", testCase.x, testCase.y, inside, testCase.inside)
			}
			if token != testCase.token {
				t.Fatalf("ClassifyCorner(%v, %v) token = %q, want %q", testCase.x, testCase.y, token, testCase.token)
			}
		})
	}
}

func TestClassifyCornerTinyScreen(t *testing.T) {
	// A threshold larger than half the screen makes every point a corner;
	// the top-left test runs first and wins.
	geometry := model.ScreenGeometry{Width: 60, Height: 60, CornerThreshold: 50}
	token, inside := ClassifyCorner(30, 30, geometry)
	if !inside || token != model.CornerTopLeft {
		t.Fatalf("ClassifyCorner on overlapping regions = %q, %v, want top_left priority", token, inside)
	}
}
