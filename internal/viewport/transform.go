// Package viewport maps between screen and world coordinates and drives the
// pointer gestures of the canvas: zoom controls, background panning, and node
// drag-move.
package viewport

import (
	"fmt"
	"math"

	"smartbus/internal/domain"
)

// WorldToScreen maps a world point into canvas pixels: world*zoom + pan
func WorldToScreen(world domain.Position, vp domain.Viewport) domain.Position {
	return world.Scale(vp.Zoom).Add(vp.Pan)
}

// ScreenToWorld maps a pointer position into world space. origin is the
// top-left corner of the canvas element in the same frame as screen.
func ScreenToWorld(screen, origin domain.Position, vp domain.Viewport) domain.Position {
	return screen.Sub(origin).Sub(vp.Pan).Scale(1 / vp.Zoom)
}

// ClampZoom limits zoom to [domain.MinZoom, domain.MaxZoom]
func ClampZoom(zoom float64) float64 {
	return math.Max(domain.MinZoom, math.Min(domain.MaxZoom, zoom))
}

// ZoomLabel formats zoom as a whole percentage, e.g. "125%"
func ZoomLabel(zoom float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(zoom*100)))
}
