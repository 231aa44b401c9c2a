package extract

import (
	"testing"

	"github.com/pageperceive/core/snapshot"
)

func TestScreenZone(t *testing.T) {
	tests := []struct {
		name     string
		bbox     snapshot.BBox
		viewport int
		want     string
	}{
		{"zero box is unknown", snapshot.BBox{}, 800, "unknown"},
		{"centered in viewport", snapshot.BBox{Y: 100, H: 50}, 800, "above-the-fold"},
		{"below the fold", snapshot.BBox{Y: 1000, H: 50}, 800, "below-the-fold"},
		{"far off screen", snapshot.BBox{Y: 100000, H: 10}, 800, "off-screen"},
		{"negative position", snapshot.BBox{Y: -500, H: 10}, 800, "off-screen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScreenZone(tt.bbox, tt.viewport); got != tt.want {
				t.Errorf("ScreenZone(%+v, %d): got %q, want %q", tt.bbox, tt.viewport, got, tt.want)
			}
		})
	}
}

func TestQuadToBBox_FromContentQuad(t *testing.T) {
	content := []float64{10, 20, 110, 20, 110, 70, 10, 70}
	bbox := quadToBBox(content, 100, 50)
	if bbox.X != 10 || bbox.Y != 20 || bbox.W != 100 || bbox.H != 50 {
		t.Errorf("quadToBBox: got %+v", bbox)
	}
}

func TestQuadToBBox_EmptyContentFallsBackToDimensions(t *testing.T) {
	bbox := quadToBBox(nil, 100, 50)
	if bbox.W != 100 || bbox.H != 50 || bbox.X != 0 || bbox.Y != 0 {
		t.Errorf("quadToBBox(nil): got %+v", bbox)
	}
}
