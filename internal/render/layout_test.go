package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginateEmptyListIsOnePage(t *testing.T) {
	placements, total := Paginate(nil, DefaultPageConfig())
	assert.Nil(t, placements)
	assert.Equal(t, 1, total)
}

func TestPaginateSingleComponent(t *testing.T) {
	components := []Component{
		{ID: "c1", Type: TypeHeader, Position: Position{X: 100, Y: 50}},
	}

	placements, total := Paginate(components, DefaultPageConfig())
	require.Len(t, placements, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, placements[0].Page)
}

func TestPaginateScalesCanvasToPrintSpace(t *testing.T) {
	cfg := DefaultPageConfig()
	components := []Component{
		{
			ID:       "c1",
			Type:     TypeTextBlock,
			Position: Position{X: 576, Y: 100},
			Style:    map[string]any{"width": "400px", "height": "200px"},
		},
	}

	placements, _ := Paginate(components, cfg)
	require.Len(t, placements, 1)
	p := placements[0]
	assert.InDelta(t, 576*cfg.ScaleX(), p.X, 0.001)
	assert.InDelta(t, 100*cfg.ScaleY(), p.Y, 0.001)
	assert.InDelta(t, 400*cfg.ScaleX(), p.Width, 0.001)
	assert.InDelta(t, 200*cfg.ScaleY(), p.Height, 0.001)
}

func TestPaginateClampsXToPageEdges(t *testing.T) {
	cfg := DefaultPageConfig()
	components := []Component{
		{ID: "left", Type: TypeTextBlock, Position: Position{X: 0, Y: 0}},
		{ID: "right", Type: TypeTextBlock, Position: Position{X: 2000, Y: 10}},
	}

	placements, _ := Paginate(components, cfg)
	require.Len(t, placements, 2)
	assert.Equal(t, cfg.EdgeClamp, placements[0].X)
	assert.Equal(t, cfg.PageWidth-cfg.EdgeClamp, placements[1].X)
}

func TestPaginateDefaultHeightForMissingOrMalformedStyle(t *testing.T) {
	cfg := DefaultPageConfig()
	components := []Component{
		{ID: "none", Type: TypeTextBlock, Position: Position{Y: 0}},
		{ID: "bad", Type: TypeTextBlock, Position: Position{Y: 10}, Style: map[string]any{"height": "tall"}},
		{ID: "neg", Type: TypeTextBlock, Position: Position{Y: 20}, Style: map[string]any{"height": -50}},
	}

	placements, _ := Paginate(components, cfg)
	require.Len(t, placements, 3)
	for _, p := range placements {
		assert.InDelta(t, cfg.DefaultHeight*cfg.ScaleY(), p.Height, 0.001)
	}
}

func TestPaginateSortsByYStable(t *testing.T) {
	components := []Component{
		{ID: "third", Type: TypeTextBlock, Position: Position{Y: 500}},
		{ID: "first", Type: TypeTextBlock, Position: Position{Y: 10}},
		{ID: "tie-a", Type: TypeTextBlock, Position: Position{Y: 200}},
		{ID: "tie-b", Type: TypeTextBlock, Position: Position{Y: 200}},
	}

	placements, _ := Paginate(components, DefaultPageConfig())
	require.Len(t, placements, 4)
	assert.Equal(t, "first", placements[0].Component.ID)
	assert.Equal(t, "tie-a", placements[1].Component.ID)
	assert.Equal(t, "tie-b", placements[2].Component.ID)
	assert.Equal(t, "third", placements[3].Component.ID)
}

func TestPaginateOverflowsToMultiplePages(t *testing.T) {
	// Twenty stacked 200px-tall components: roughly seven scaled rows fit a
	// page, so the flow must spill onto a third page.
	var components []Component
	for i := 0; i < 20; i++ {
		components = append(components, Component{
			ID:       "h" + string(rune('a'+i)),
			Type:     TypeHeader,
			Position: Position{X: 0, Y: float64(i * 200)},
			Style:    map[string]any{"height": "200px"},
		})
	}

	placements, total := Paginate(components, DefaultPageConfig())
	require.Len(t, placements, 20)
	assert.Equal(t, 3, total)

	// Page numbers never decrease in Y order and every page is used.
	seen := map[int]int{}
	prev := 1
	for _, p := range placements {
		assert.GreaterOrEqual(t, p.Page, prev)
		prev = p.Page
		seen[p.Page]++
	}
	assert.Equal(t, 7, seen[1])
	for page := 1; page <= total; page++ {
		assert.Greater(t, seen[page], 0, "page %d has no components", page)
	}
}

func TestPaginateNeverSplitsTallComponent(t *testing.T) {
	cfg := DefaultPageConfig()
	components := []Component{
		{ID: "small", Type: TypeTextBlock, Position: Position{Y: 0}, Style: map[string]any{"height": 100}},
		{ID: "huge", Type: TypeImage, Position: Position{Y: 100}, Style: map[string]any{"height": 3000}},
		{ID: "after", Type: TypeTextBlock, Position: Position{Y: 3200}, Style: map[string]any{"height": 100}},
	}

	placements, total := Paginate(components, cfg)
	require.Len(t, placements, 3)

	// The oversized component lands whole on its own page; it is placed
	// once and the following component starts a later page.
	assert.Equal(t, 1, placements[0].Page)
	assert.Equal(t, 2, placements[1].Page)
	assert.Equal(t, 3, placements[2].Page)
	assert.Equal(t, 3, total)
	assert.InDelta(t, 3000*cfg.ScaleY(), placements[1].Height, 0.001)
}

func TestPaginateAdjustedYStaysOnPage(t *testing.T) {
	cfg := DefaultPageConfig()
	var components []Component
	for i := 0; i < 12; i++ {
		components = append(components, Component{
			ID:       "c" + string(rune('a'+i)),
			Type:     TypeTextBlock,
			Position: Position{Y: float64(i * 220)},
			Style:    map[string]any{"height": 200},
		})
	}

	placements, _ := Paginate(components, cfg)
	for _, p := range placements {
		assert.GreaterOrEqual(t, p.Y, cfg.EdgeClamp)
		assert.Less(t, p.Y, cfg.PageHeight)
	}
}

func TestParsePixels(t *testing.T) {
	assert.Equal(t, 100.0, parsePixels(nil, 100))
	assert.Equal(t, 240.0, parsePixels(240.0, 100))
	assert.Equal(t, 240.0, parsePixels(240, 100))
	assert.Equal(t, 240.0, parsePixels("240px", 100))
	assert.Equal(t, 240.0, parsePixels(" 240 ", 100))
	assert.Equal(t, 100.0, parsePixels("", 100))
	assert.Equal(t, 100.0, parsePixels("abc", 100))
	assert.Equal(t, 100.0, parsePixels(-5.0, 100))
	assert.Equal(t, 100.0, parsePixels([]string{"x"}, 100))
}
