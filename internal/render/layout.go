package render

import "sort"

// PageConfig names the canvas-to-print geometry contract. The editor canvas
// is a fixed virtual surface approximating A4 aspect ratio at interactive
// scale; print space is A4 at 96 DPI.
type PageConfig struct {
	CanvasWidth  float64
	CanvasHeight float64
	PageWidth    float64
	PageHeight   float64
	MarginX      float64 // horizontal page margin per side
	MarginY      float64 // vertical page margin per side
	EdgeClamp    float64 // minimum distance kept from page edges
	// DefaultHeight is assumed for components without a usable style
	// height, in canvas pixels.
	DefaultHeight float64
}

// DefaultPageConfig returns the production geometry: 1152x1632 canvas onto a
// 794x1123 A4 page with a usable area of 754x1043.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		CanvasWidth:   1152,
		CanvasHeight:  1632,
		PageWidth:     794,
		PageHeight:    1123,
		MarginX:       20,
		MarginY:       40,
		EdgeClamp:     20,
		DefaultHeight: 100,
	}
}

func (c PageConfig) UsableWidth() float64  { return c.PageWidth - 2*c.MarginX }
func (c PageConfig) UsableHeight() float64 { return c.PageHeight - 2*c.MarginY }
func (c PageConfig) ScaleX() float64       { return c.PageWidth / c.CanvasWidth }
func (c PageConfig) ScaleY() float64       { return c.PageHeight / c.CanvasHeight }

// Placement assigns a component to a page with its on-page print-space
// coordinates. Width is 0 when the component declared no explicit width, in
// which case the renderer picks a per-type default.
type Placement struct {
	Component *Component
	Page      int
	X         float64
	Y         float64
	Width     float64
	Height    float64
}

// Paginate re-flows a flat list of canvas-positioned components onto fixed
// pages. Components are processed in ascending Y order (stable, so ties keep
// their original order); page assignment is monotonic in that order and a
// component is never split across pages — one taller than a full page is
// placed whole and allowed to overflow visually rather than be cropped.
//
// Returns placements in sorted order and the total page count, which is at
// least 1 even for an empty list.
func Paginate(components []Component, cfg PageConfig) ([]Placement, int) {
	if len(components) == 0 {
		return nil, 1
	}

	order := make([]int, len(components))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return components[order[a]].Position.Y < components[order[b]].Position.Y
	})

	scaleX := cfg.ScaleX()
	scaleY := cfg.ScaleY()
	usableHeight := cfg.UsableHeight()

	placements := make([]Placement, 0, len(components))
	currentPage := 1
	currentPageHeight := 0.0

	for _, idx := range order {
		c := &components[idx]
		style := decodeStyle(c)

		scaledHeight := parsePixels(style.Height, cfg.DefaultHeight) * scaleY
		scaledWidth := parsePixels(style.Width, 0) * scaleX
		scaledX := clamp(c.Position.X*scaleX, cfg.EdgeClamp, cfg.PageWidth-cfg.EdgeClamp)
		scaledY := c.Position.Y * scaleY

		if currentPageHeight+scaledHeight > usableHeight && currentPageHeight > 0 {
			currentPage++
			currentPageHeight = scaledHeight
		} else {
			bottom := scaledY + scaledHeight - float64(currentPage-1)*usableHeight
			if bottom > currentPageHeight {
				currentPageHeight = bottom
			}
		}

		adjustedY := scaledY - float64(currentPage-1)*usableHeight
		if adjustedY < cfg.EdgeClamp {
			adjustedY = cfg.EdgeClamp
		}

		placements = append(placements, Placement{
			Component: c,
			Page:      currentPage,
			X:         scaledX,
			Y:         adjustedY,
			Width:     scaledWidth,
			Height:    scaledHeight,
		})
	}

	return placements, currentPage
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
