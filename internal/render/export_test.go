package render

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderEmptyTemplateIsSinglePage(t *testing.T) {
	html := Render(nil, nil, "Empty", "", "")

	assert.Equal(t, 1, strings.Count(html, `<div class="page">`))
	assert.NotContains(t, html, "page-footer")
	assert.Contains(t, html, "<title>Empty</title>")
	assert.Contains(t, html, "background-color: #ffffff")
}

func TestRenderIsDeterministic(t *testing.T) {
	components := []Component{
		{ID: "c1", Type: TypeHeader, Content: map[string]any{"title": "{{studentName}}"}, Position: Position{Y: 0}},
		{ID: "c2", Type: TypeScoreTable, Position: Position{Y: 300}},
		{ID: "c3", Type: TypeBarChart, Position: Position{Y: 600}},
	}
	data := map[string]any{"studentName": "Ada", "mathScore": 85.0}

	first := Render(components, data, "Report", "#fafafa", "")
	second := Render(components, data, "Report", "#fafafa", "")
	assert.Equal(t, first, second)
}

func TestRenderMultiPageEmitsFooters(t *testing.T) {
	var components []Component
	for i := 0; i < 20; i++ {
		components = append(components, Component{
			ID:       "c" + strconv.Itoa(i),
			Type:     TypeTextBlock,
			Content:  map[string]any{"text": "block"},
			Position: Position{Y: float64(i * 200)},
			Style:    map[string]any{"height": "200px"},
		})
	}

	html := Render(components, nil, "Long", "", "")

	assert.Equal(t, 3, strings.Count(html, `<div class="page">`))
	assert.Contains(t, html, "Page 1 of 3")
	assert.Contains(t, html, "Page 3 of 3")
}

func TestRenderTitleIsSubstitutedAndEscaped(t *testing.T) {
	html := Render(nil, map[string]any{"name": "A <b> B"}, "Report for {{name}}", "", "")

	assert.Contains(t, html, "<title>Report for A &lt;b&gt; B</title>")
}

func TestRenderBackgroundOptions(t *testing.T) {
	html := Render(nil, nil, "BG", "#112233", "https://example.com/bg.png")

	assert.Contains(t, html, "background-color: #112233")
	assert.Contains(t, html, "background-image: url('https://example.com/bg.png')")
	assert.Contains(t, html, "background-size: cover")
}

func TestRenderIncludesPrintSafetyRules(t *testing.T) {
	html := Render(nil, nil, "Print", "", "")

	assert.Contains(t, html, "print-color-adjust: exact")
	assert.Contains(t, html, "@page { size: A4; margin: 0; }")
	assert.Contains(t, html, "page-break-after: always")
}

func TestRenderComponentsLandOnAssignedPages(t *testing.T) {
	components := []Component{
		{ID: "top", Type: TypeTextBlock, Content: map[string]any{"text": "FIRST-PAGE-MARK"}, Position: Position{Y: 0}, Style: map[string]any{"height": 100}},
		{ID: "tall", Type: TypeSpacer, Position: Position{Y: 100}, Style: map[string]any{"height": 1600}},
		{ID: "bottom", Type: TypeTextBlock, Content: map[string]any{"text": "LAST-PAGE-MARK"}, Position: Position{Y: 1800}, Style: map[string]any{"height": 100}},
	}

	html := Render(components, nil, "Pages", "", "")

	firstPage := html[:strings.Index(html, "Page 1 of")]
	assert.Contains(t, firstPage, "FIRST-PAGE-MARK")
	assert.NotContains(t, firstPage, "LAST-PAGE-MARK")
	assert.Contains(t, html, "LAST-PAGE-MARK")
}
