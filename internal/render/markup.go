package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

// renderContext carries the per-render inputs shared by every branch. It is
// constructed fresh per call and never mutated, so renders stay pure.
type renderContext struct {
	cfg  PageConfig
	data map[string]any
}

func (ctx *renderContext) sub(s string) string {
	return Substitute(s, ctx.data)
}

type renderFunc func(*renderContext, Placement) string

var renderers map[string]renderFunc

func init() {
	renderers = map[string]renderFunc{
		TypeHeader:        renderHeader,
		TypeStudentInfo:   renderStudentInfo,
		TypeScoreTable:    renderScoreTable,
		TypeTextBlock:     renderTextBlock,
		TypeDivider:       renderDivider,
		TypeSpacer:        renderSpacer,
		TypePageBreak:     renderPageBreak,
		TypeContainer:     renderContainer,
		TypeImage:         renderImage,
		TypeQRCode:        renderQRCode,
		TypeBarChart:      renderBarChart,
		TypeColumnChart:   renderColumnChart,
		TypeLineChart:     renderLineChart,
		TypePieChart:      renderPieChart,
		TypeSegmentedBar:  renderSegmentedBar,
		TypeDonutChart:    renderDonutChart,
		TypeVennChart:     renderVennChart,
		TypeNightingale:   renderNightingaleChart,
		TypeBubbleChart:   renderBubbleChart,
		TypeLollipopChart: renderLollipopChart,
		TypeWordCloud:     renderWordCloud,
		TypeIconChart:     renderIconChart,
		TypeStackedColumn: renderStackedColumn,
		TypeTableChart:    renderTableChart,
	}
}

// defaultWidths gives the print-space width used when a component declares
// none. Types absent here render with automatic width.
var defaultWidths = map[string]float64{
	TypeHeader:        754,
	TypeStudentInfo:   500,
	TypeScoreTable:    600,
	TypeTextBlock:     500,
	TypeDivider:       754,
	TypeContainer:     754,
	TypeBarChart:      420,
	TypeColumnChart:   420,
	TypeLineChart:     420,
	TypePieChart:      300,
	TypeSegmentedBar:  500,
	TypeDonutChart:    300,
	TypeVennChart:     360,
	TypeNightingale:   320,
	TypeBubbleChart:   400,
	TypeLollipopChart: 420,
	TypeWordCloud:     420,
	TypeIconChart:     420,
	TypeStackedColumn: 420,
	TypeTableChart:    600,
}

// RenderComponent turns one placed component into a self-contained markup
// fragment. The outermost wrapper always carries the engine-assigned
// absolute position and scaled size, whatever the branch emits inside it.
// An unrecognized type yields a visibly-marked placeholder so one malformed
// component never aborts the rest of the document.
func RenderComponent(ctx *renderContext, p Placement) string {
	var b strings.Builder
	b.WriteString(`<div class="component component--`)
	b.WriteString(esc(p.Component.Type))
	b.WriteString(`" style="`)
	b.WriteString(positionStyle(p))
	b.WriteString(componentStyle(decodeStyle(p.Component)))
	b.WriteString(`">`)

	if fn, ok := renderers[p.Component.Type]; ok {
		b.WriteString(fn(ctx, p))
	} else {
		b.WriteString(renderUnknown(p))
	}

	b.WriteString(`</div>`)
	return b.String()
}

func positionStyle(p Placement) string {
	var b strings.Builder
	b.WriteString("position:absolute;left:")
	b.WriteString(fmtPx(p.X))
	b.WriteString(";top:")
	b.WriteString(fmtPx(p.Y))
	b.WriteString(";")
	width := p.Width
	if width <= 0 {
		width = defaultWidths[p.Component.Type]
	}
	if width > 0 {
		b.WriteString("width:")
		b.WriteString(fmtPx(width))
		b.WriteString(";")
	}
	if p.Height > 0 {
		b.WriteString("min-height:")
		b.WriteString(fmtPx(p.Height))
		b.WriteString(";")
	}
	return b.String()
}

// componentStyle maps the shared style record onto inline CSS. Only
// explicitly set properties are emitted so branch defaults stay visible.
func componentStyle(s Style) string {
	var b strings.Builder
	if s.BackgroundColor != "" {
		b.WriteString("background-color:" + esc(s.BackgroundColor) + ";")
	}
	if s.TextColor != "" {
		b.WriteString("color:" + esc(s.TextColor) + ";")
	}
	if v := parsePixels(s.FontSize, 0); v > 0 {
		b.WriteString("font-size:" + fmtPx(v) + ";")
	}
	if v := parsePixels(s.Padding, 0); v > 0 {
		b.WriteString("padding:" + fmtPx(v) + ";")
	}
	if v := parsePixels(s.BorderRadius, 0); v > 0 {
		b.WriteString("border-radius:" + fmtPx(v) + ";")
	}
	return b.String()
}

func renderUnknown(p Placement) string {
	return `<div class="component-unknown" style="border:1px dashed #c0392b;color:#c0392b;padding:8px;font-size:12px;">Unsupported component type: ` +
		esc(p.Component.Type) + `</div>`
}

func renderHeader(ctx *renderContext, p Placement) string {
	var content HeaderContent
	decodeContent(p.Component.Content, &content)
	if content.Title == "" {
		content.Title = "{{templateName}}"
	}

	var b strings.Builder
	b.WriteString(`<div class="header"><h1 style="margin:0;font-size:28px;">`)
	b.WriteString(esc(ctx.sub(content.Title)))
	b.WriteString(`</h1>`)
	if content.Subtitle != "" {
		b.WriteString(`<div class="header-subtitle" style="font-size:14px;color:#666;">`)
		b.WriteString(esc(ctx.sub(content.Subtitle)))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderStudentInfo(ctx *renderContext, p Placement) string {
	var content StudentInfoContent
	decodeContent(p.Component.Content, &content)
	if content.StudentName == "" {
		content.StudentName = "{{studentName}}"
	}
	if content.StudentID == "" {
		content.StudentID = "{{studentId}}"
	}

	rows := []struct{ label, value string }{
		{"Name", content.StudentName},
		{"Student ID", content.StudentID},
		{"Class", content.Classroom},
		{"Teacher", content.Teacher},
	}

	var b strings.Builder
	b.WriteString(`<div class="student-info" style="font-size:14px;line-height:1.7;">`)
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		b.WriteString(`<div><span style="color:#888;margin-right:8px;">`)
		b.WriteString(esc(row.label))
		b.WriteString(`:</span><span>`)
		b.WriteString(esc(ctx.sub(row.value)))
		b.WriteString(`</span></div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderScoreTable(ctx *renderContext, p Placement) string {
	var content ScoreTableContent
	decodeContent(p.Component.Content, &content)
	if len(content.Headers) == 0 {
		content.Headers = []string{"Subject", "Score", "Grade"}
	}
	if len(content.Rows) == 0 {
		// No explicit rows: derive them from the data object's well-known
		// score fields, same resolution as the data-bound charts.
		for _, s := range resolveScoreSeries(ctx, ChartContent{}) {
			content.Rows = append(content.Rows, []string{s.Subject, fmtNum(s.Score), s.Grade})
		}
	}

	var b strings.Builder
	b.WriteString(`<table class="score-table" style="width:100%;border-collapse:collapse;font-size:13px;"><thead><tr>`)
	for _, h := range content.Headers {
		b.WriteString(`<th style="border:1px solid #ddd;padding:6px 10px;background:#f5f6fa;text-align:left;">`)
		b.WriteString(esc(ctx.sub(h)))
		b.WriteString(`</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, row := range content.Rows {
		b.WriteString(`<tr>`)
		for _, cell := range row {
			b.WriteString(`<td style="border:1px solid #ddd;padding:6px 10px;">`)
			b.WriteString(esc(ctx.sub(cell)))
			b.WriteString(`</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}

func renderTextBlock(ctx *renderContext, p Placement) string {
	var content TextBlockContent
	decodeContent(p.Component.Content, &content)

	text := esc(ctx.sub(content.Text))
	text = strings.ReplaceAll(text, "\n", "<br>")
	return `<div class="text-block" style="font-size:14px;line-height:1.6;">` + text + `</div>`
}

func renderDivider(ctx *renderContext, p Placement) string {
	return `<div class="divider" style="border-top:1px solid #ddd;height:1px;"></div>`
}

func renderSpacer(ctx *renderContext, p Placement) string {
	return `<div class="spacer"></div>`
}

// Page breaks are consumed by the pagination engine; the fragment is an
// invisible marker that also hints the print engine for safety.
func renderPageBreak(ctx *renderContext, p Placement) string {
	return `<div class="page-break-marker" style="height:0;page-break-after:always;"></div>`
}

var containerGaps = map[string]float64{
	"small":  8,
	"medium": 16,
	"large":  24,
}

func renderContainer(ctx *renderContext, p Placement) string {
	var content ContainerContent
	decodeContent(p.Component.Content, &content)

	gap, ok := containerGaps[content.ItemSpacing]
	if !ok {
		gap = containerGaps["medium"]
	}

	var layout string
	switch content.LayoutDirection {
	case "horizontal":
		layout = "display:flex;flex-direction:row;flex-wrap:wrap;gap:" + fmtPx(gap) + ";"
	case "grid":
		layout = "display:grid;grid-template-columns:repeat(2,1fr);gap:" + fmtPx(gap) + ";"
	default: // vertical stack
		layout = "display:flex;flex-direction:column;gap:" + fmtPx(gap) + ";"
	}

	var b strings.Builder
	b.WriteString(`<div class="container" style="` + layout + `">`)
	for i := range p.Component.Children {
		child := &p.Component.Children[i]
		// Children follow the container's flow layout; their own canvas
		// position is intentionally ignored.
		childPlacement := Placement{
			Component: child,
			Height:    parsePixels(decodeStyle(child).Height, 0) * ctx.cfg.ScaleY(),
		}
		b.WriteString(`<div class="container-item" style="`)
		b.WriteString(componentStyle(decodeStyle(child)))
		b.WriteString(`">`)
		if fn, ok := renderers[child.Type]; ok {
			b.WriteString(fn(ctx, childPlacement))
		} else {
			b.WriteString(renderUnknown(childPlacement))
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderImage(ctx *renderContext, p Placement) string {
	var content ImageContent
	decodeContent(p.Component.Content, &content)

	src := strings.TrimSpace(ctx.sub(content.Src))
	if src == "" || strings.Contains(src, "{{") {
		// Unresolved or missing source: a visible placeholder block keeps
		// the slot in the export instead of a broken image.
		return `<div class="image-placeholder" style="background:#f0f0f0;border:1px dashed #bbb;display:flex;align-items:center;justify-content:center;color:#999;font-size:12px;height:100%;min-height:80px;">Image</div>`
	}

	var b strings.Builder
	b.WriteString(`<img src="` + esc(src) + `" alt="` + esc(ctx.sub(content.Alt)) + `" style="max-width:100%;height:auto;">`)
	if content.Caption != "" {
		b.WriteString(`<div class="image-caption" style="font-size:12px;color:#888;text-align:center;">`)
		b.WriteString(esc(ctx.sub(content.Caption)))
		b.WriteString(`</div>`)
	}
	return b.String()
}

func renderQRCode(ctx *renderContext, p Placement) string {
	var content QRCodeContent
	decodeContent(p.Component.Content, &content)

	value := strings.TrimSpace(ctx.sub(content.Value))
	size := int(p.Height)
	if size < 64 {
		size = 96
	}

	dataURI, err := encodeQRDataURI(value, size)
	if err != nil {
		return `<div class="qr-placeholder" style="background:#f0f0f0;border:1px dashed #bbb;display:flex;align-items:center;justify-content:center;color:#999;font-size:12px;height:100%;min-height:80px;">QR</div>`
	}

	var b strings.Builder
	b.WriteString(`<img class="qr-code" src="` + dataURI + `" width="` + strconv.Itoa(size) + `" height="` + strconv.Itoa(size) + `" alt="QR code">`)
	if content.Label != "" {
		b.WriteString(`<div class="qr-label" style="font-size:12px;color:#888;text-align:center;">`)
		b.WriteString(esc(ctx.sub(content.Label)))
		b.WriteString(`</div>`)
	}
	return b.String()
}

func encodeQRDataURI(value string, size int) (string, error) {
	if value == "" {
		return "", fmt.Errorf("empty qr value")
	}
	code, err := qr.Encode(value, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr content: %w", err)
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return "", fmt.Errorf("failed to scale qr code: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return "", fmt.Errorf("failed to render qr png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func esc(s string) string {
	return html.EscapeString(s)
}

func fmtPx(v float64) string {
	return fmtNum(v) + "px"
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
