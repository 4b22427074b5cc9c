package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCtx(data map[string]any) *renderContext {
	return &renderContext{cfg: DefaultPageConfig(), data: data}
}

func renderOne(t *testing.T, c Component, data map[string]any) string {
	t.Helper()
	placements, _ := Paginate([]Component{c}, DefaultPageConfig())
	return RenderComponent(testCtx(data), placements[0])
}

func TestRenderHeaderSubstitutesTitle(t *testing.T) {
	html := renderOne(t, Component{
		ID:      "c1",
		Type:    TypeHeader,
		Content: map[string]any{"title": "{{studentName}} Report", "subtitle": "Semester {{semester}}"},
	}, map[string]any{"studentName": "Ada", "semester": "1"})

	assert.Contains(t, html, "Ada Report")
	assert.Contains(t, html, "Semester 1")
	assert.Contains(t, html, `component--header`)
}

func TestRenderHeaderEscapesValues(t *testing.T) {
	html := renderOne(t, Component{
		ID:      "c1",
		Type:    TypeHeader,
		Content: map[string]any{"title": "{{name}}"},
	}, map[string]any{"name": "<script>alert(1)</script>"})

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderUnknownTypeYieldsPlaceholder(t *testing.T) {
	html := renderOne(t, Component{ID: "c1", Type: "mystery-widget"}, nil)

	assert.Contains(t, html, "Unsupported component type: mystery-widget")
	assert.Contains(t, html, "component-unknown")
}

func TestRenderTextBlockConvertsNewlines(t *testing.T) {
	html := renderOne(t, Component{
		ID:      "c1",
		Type:    TypeTextBlock,
		Content: map[string]any{"text": "line one\nline two"},
	}, nil)

	assert.Contains(t, html, "line one<br>line two")
}

func TestRenderStudentInfoDefaultsToTokens(t *testing.T) {
	// Without content the block falls back to the canonical identity tokens,
	// so supplied data still lands in the output.
	html := renderOne(t, Component{ID: "c1", Type: TypeStudentInfo}, map[string]any{
		"studentName": "Ada Lovelace",
		"studentId":   "S-42",
	})

	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, "S-42")
}

func TestRenderScoreTableDerivesRowsFromData(t *testing.T) {
	html := renderOne(t, Component{ID: "c1", Type: TypeScoreTable}, map[string]any{
		"mathScore":    85.0,
		"scienceScore": 92.0,
	})

	assert.Contains(t, html, "Math")
	assert.Contains(t, html, "85")
	assert.Contains(t, html, "B")
	assert.Contains(t, html, "Science")
	assert.Contains(t, html, "92")
	assert.Contains(t, html, "A")
}

func TestRenderContainerChildrenAreNotAbsolute(t *testing.T) {
	html := renderOne(t, Component{
		ID:      "c1",
		Type:    TypeContainer,
		Content: map[string]any{"layoutDirection": "horizontal", "itemSpacing": "small"},
		Children: []Component{
			{ID: "k1", Type: TypeTextBlock, Content: map[string]any{"text": "left"}},
			{ID: "k2", Type: TypeTextBlock, Content: map[string]any{"text": "right"}},
		},
	}, nil)

	// Only the container wrapper itself is absolutely positioned; children
	// follow the flex flow.
	assert.Equal(t, 1, strings.Count(html, "position:absolute"))
	assert.Contains(t, html, "flex-direction:row")
	assert.Contains(t, html, "gap:8px")
	assert.Contains(t, html, "left")
	assert.Contains(t, html, "right")
}

func TestRenderContainerGridLayout(t *testing.T) {
	html := renderOne(t, Component{
		ID:      "c1",
		Type:    TypeContainer,
		Content: map[string]any{"layoutDirection": "grid"},
	}, nil)

	assert.Contains(t, html, "display:grid")
	assert.Contains(t, html, "gap:16px") // medium default
}

func TestRenderImageUnresolvedSourceShowsPlaceholder(t *testing.T) {
	html := renderOne(t, Component{
		ID:      "c1",
		Type:    TypeImage,
		Content: map[string]any{"src": "{{photoUrl}}"},
	}, nil)

	assert.Contains(t, html, "image-placeholder")
	assert.NotContains(t, html, "<img")
}

func TestRenderImageResolvedSource(t *testing.T) {
	html := renderOne(t, Component{
		ID:      "c1",
		Type:    TypeImage,
		Content: map[string]any{"src": "{{photoUrl}}", "caption": "Portrait"},
	}, map[string]any{"photoUrl": "https://example.com/a.png"})

	assert.Contains(t, html, `<img src="https://example.com/a.png"`)
	assert.Contains(t, html, "Portrait")
}

func TestRenderQRCodeEmbedsDataURI(t *testing.T) {
	html := renderOne(t, Component{
		ID:      "c1",
		Type:    TypeQRCode,
		Content: map[string]any{"value": "https://example.com/r/{{studentId}}", "label": "Scan me"},
	}, map[string]any{"studentId": "S-42"})

	assert.Contains(t, html, "data:image/png;base64,")
	assert.Contains(t, html, "Scan me")
}

func TestRenderQRCodeEmptyValueShowsPlaceholder(t *testing.T) {
	html := renderOne(t, Component{ID: "c1", Type: TypeQRCode}, nil)

	assert.Contains(t, html, "qr-placeholder")
	assert.NotContains(t, html, "data:image/png")
}

func TestRenderDividerSpacerPageBreak(t *testing.T) {
	assert.Contains(t, renderOne(t, Component{ID: "d", Type: TypeDivider}, nil), "divider")
	assert.Contains(t, renderOne(t, Component{ID: "s", Type: TypeSpacer}, nil), "spacer")
	assert.Contains(t, renderOne(t, Component{ID: "p", Type: TypePageBreak}, nil), "page-break-after:always")
}

func TestComponentStyleEmitsOnlySetProperties(t *testing.T) {
	css := componentStyle(Style{BackgroundColor: "#fff", FontSize: 16})
	assert.Contains(t, css, "background-color:#fff;")
	assert.Contains(t, css, "font-size:16px;")
	assert.NotContains(t, css, ";color:")
	assert.NotContains(t, css, "padding")
}
