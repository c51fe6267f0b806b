package exitseq

import "keyplay/internal/core/model"

// ClassifyCorner maps a click coordinate to a named screen corner, or
// reports false when the click is not within the corner threshold. The
// comparison is strictly exclusive: a click exactly at distance == threshold
// does not match. Corners are checked in a fixed priority order so that
// overlapping thresholds on very small screens stay unambiguous.
func ClassifyCorner(x, y float64, geometry model.ScreenGeometry) (model.CornerToken, bool) {
	threshold := geometry.CornerThreshold

	switch {
	case x < threshold && y < threshold:
		return model.CornerTopLeft, true
	case x > geometry.Width-threshold && y < threshold:
		return model.CornerTopRight, true
	case x > geometry.Width-threshold && y > geometry.Height-threshold:
		return model.CornerBottomRight, true
	case x < threshold && y > geometry.Height-threshold:
		return model.CornerBottomLeft, true
	}
	return "", false
}
