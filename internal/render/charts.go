package render

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SubjectScore is one resolved point of a data-bound chart series.
type SubjectScore struct {
	Subject string
	Score   float64
	Grade   string
}

// GradeFor buckets a 0-100 score into a letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// Well-known scalar score fields, in the order charts present them.
var scoreFields = []struct {
	key     string
	subject string
}{
	{"mathScore", "Math"},
	{"scienceScore", "Science"},
	{"englishScore", "English"},
	{"historyScore", "History"},
	{"artScore", "Art"},
}

// sampleSeries ships with charts that resolve no data at all, so an empty
// template still previews with a representative shape.
var sampleSeries = []SubjectScore{
	{"Math", 85, "B"},
	{"Science", 92, "A"},
	{"English", 78, "C"},
	{"History", 88, "B"},
	{"Art", 95, "A"},
}

var chartPalette = []string{"#5470c6", "#91cc75", "#fac858", "#ee6666", "#73c0de", "#3ba272", "#fc8452"}

func paletteColor(i int) string {
	return chartPalette[i%len(chartPalette)]
}

// resolveScoreSeries resolves a data-bound chart's series. Precedence is
// uniform across every data-bound variant:
//  1. content.data as a {{variable}} reference into the data object
//  2. content.data as literal JSON (string or inline object) in
//     {labels, datasets:[{data}]} shape
//  3. the data object itself already in that shape
//  4. well-known scalar score fields on the data object
//  5. the fixed sample series
func resolveScoreSeries(ctx *renderContext, content ChartContent) []SubjectScore {
	switch d := content.Data.(type) {
	case string:
		trimmed := strings.TrimSpace(d)
		if m := tokenPattern.FindStringSubmatch(trimmed); m != nil && m[0] == trimmed {
			if v, ok := ctx.data[m[1]]; ok {
				if series, ok := seriesFromValue(v); ok {
					return series
				}
			}
		} else if series, ok := seriesFromValue(trimmed); ok {
			return series
		}
	case nil:
	default:
		if series, ok := seriesFromValue(d); ok {
			return series
		}
	}

	if series, ok := seriesFromValue(ctx.data); ok {
		return series
	}

	var series []SubjectScore
	for _, f := range scoreFields {
		if v, ok := ctx.data[f.key]; ok {
			if n, ok := toFloat(v); ok {
				series = append(series, SubjectScore{Subject: f.subject, Score: n, Grade: GradeFor(n)})
			}
		}
	}
	if len(series) > 0 {
		return series
	}

	return sampleSeries
}

// seriesFromValue accepts a {labels, datasets} shaped value, either as a
// decoded map or as a JSON string, and pairs labels with the first dataset.
func seriesFromValue(v any) ([]SubjectScore, bool) {
	switch val := v.(type) {
	case string:
		var decoded map[string]any
		if err := json.Unmarshal([]byte(val), &decoded); err != nil {
			return nil, false
		}
		return seriesFromValue(decoded)
	case map[string]any:
		rawLabels, ok := val["labels"].([]any)
		if !ok || len(rawLabels) == 0 {
			return nil, false
		}
		rawDatasets, ok := val["datasets"].([]any)
		if !ok || len(rawDatasets) == 0 {
			return nil, false
		}
		first, ok := rawDatasets[0].(map[string]any)
		if !ok {
			return nil, false
		}
		rawData, ok := first["data"].([]any)
		if !ok {
			return nil, false
		}

		var series []SubjectScore
		for i, rl := range rawLabels {
			if i >= len(rawData) {
				break
			}
			score, ok := toFloat(rawData[i])
			if !ok {
				continue
			}
			series = append(series, SubjectScore{
				Subject: coerceString(rl),
				Score:   score,
				Grade:   GradeFor(score),
			})
		}
		if len(series) == 0 {
			return nil, false
		}
		return series, true
	default:
		return nil, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func maxScore(series []SubjectScore) float64 {
	m := 0.0
	for _, s := range series {
		if s.Score > m {
			m = s.Score
		}
	}
	if m <= 0 {
		m = 100
	}
	return m
}

func chartTitleMarkup(ctx *renderContext, title string) string {
	if title == "" {
		return ""
	}
	return `<div class="chart-title" style="font-size:14px;font-weight:bold;margin-bottom:6px;">` + esc(ctx.sub(title)) + `</div>`
}

// --- data-bound charts ---

func renderBarChart(ctx *renderContext, p Placement) string {
	var content ChartContent
	decodeContent(p.Component.Content, &content)
	series := resolveScoreSeries(ctx, content)

	var b strings.Builder
	b.WriteString(`<div class="bar-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	for i, s := range series {
		pct := clamp(s.Score, 0, 100)
		b.WriteString(`<div style="display:flex;align-items:center;margin-bottom:6px;font-size:12px;">`)
		b.WriteString(`<span style="width:72px;flex-shrink:0;">` + esc(s.Subject) + `</span>`)
		b.WriteString(`<div style="flex:1;background:#eef0f4;border-radius:4px;height:14px;">`)
		b.WriteString(`<div style="width:` + fmtNum(pct) + `%;background:` + paletteColor(i) + `;height:14px;border-radius:4px;"></div>`)
		b.WriteString(`</div>`)
		b.WriteString(`<span style="width:58px;text-align:right;flex-shrink:0;">` + fmtNum(s.Score) + ` (` + s.Grade + `)</span>`)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderColumnChart(ctx *renderContext, p Placement) string {
	var content ChartContent
	decodeContent(p.Component.Content, &content)
	series := resolveScoreSeries(ctx, content)

	chartHeight := p.Height - 50
	if chartHeight < 100 {
		chartHeight = 120
	}
	max := maxScore(series)

	var b strings.Builder
	b.WriteString(`<div class="column-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	b.WriteString(`<div style="display:flex;align-items:flex-end;gap:12px;height:` + fmtPx(chartHeight) + `;">`)
	for i, s := range series {
		barHeight := s.Score / max * (chartHeight - 30)
		b.WriteString(`<div style="flex:1;display:flex;flex-direction:column;align-items:center;justify-content:flex-end;font-size:11px;">`)
		b.WriteString(`<span>` + fmtNum(s.Score) + `</span>`)
		b.WriteString(`<div style="width:100%;max-width:36px;height:` + fmtPx(barHeight) + `;background:` + paletteColor(i) + `;border-radius:3px 3px 0 0;"></div>`)
		b.WriteString(`<span style="margin-top:4px;">` + esc(s.Subject) + `</span>`)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

func renderLineChart(ctx *renderContext, p Placement) string {
	var content ChartContent
	decodeContent(p.Component.Content, &content)
	series := resolveScoreSeries(ctx, content)

	width := p.Width
	if width <= 0 {
		width = defaultWidths[TypeLineChart]
	}
	height := p.Height - 40
	if height < 100 {
		height = 140
	}
	max := maxScore(series)

	var points []string
	step := width / float64(len(series)+1)
	for i, s := range series {
		x := step * float64(i+1)
		y := height - (s.Score/max)*(height-20) - 10
		points = append(points, fmtNum(x)+","+fmtNum(y))
	}

	var b strings.Builder
	b.WriteString(`<div class="line-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	b.WriteString(`<svg width="` + fmtNum(width) + `" height="` + fmtNum(height) + `" viewBox="0 0 ` + fmtNum(width) + ` ` + fmtNum(height) + `">`)
	b.WriteString(`<polyline fill="none" stroke="` + paletteColor(0) + `" stroke-width="2" points="` + strings.Join(points, " ") + `"/>`)
	for i, pt := range points {
		xy := strings.SplitN(pt, ",", 2)
		b.WriteString(`<circle cx="` + xy[0] + `" cy="` + xy[1] + `" r="3" fill="` + paletteColor(0) + `"/>`)
		x := step * float64(i+1)
		b.WriteString(`<text x="` + fmtNum(x) + `" y="` + fmtNum(height-2) + `" font-size="10" text-anchor="middle">` + esc(series[i].Subject) + `</text>`)
	}
	b.WriteString(`</svg></div>`)
	return b.String()
}

func renderPieChart(ctx *renderContext, p Placement) string {
	var content ChartContent
	decodeContent(p.Component.Content, &content)
	series := resolveScoreSeries(ctx, content)

	size := 180.0
	cx, cy, r := size/2, size/2, size/2-4
	total := 0.0
	for _, s := range series {
		total += s.Score
	}
	if total <= 0 {
		total = 1
	}

	var b strings.Builder
	b.WriteString(`<div class="pie-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	b.WriteString(`<svg width="` + fmtNum(size) + `" height="` + fmtNum(size) + `" viewBox="0 0 ` + fmtNum(size) + ` ` + fmtNum(size) + `">`)
	angle := -math.Pi / 2
	for i, s := range series {
		sweep := s.Score / total * 2 * math.Pi
		b.WriteString(`<path d="` + pieSlicePath(cx, cy, r, angle, angle+sweep) + `" fill="` + paletteColor(i) + `"/>`)
		angle += sweep
	}
	b.WriteString(`</svg>`)
	b.WriteString(chartLegend(series))
	b.WriteString(`</div>`)
	return b.String()
}

func pieSlicePath(cx, cy, r, start, end float64) string {
	x1 := cx + r*math.Cos(start)
	y1 := cy + r*math.Sin(start)
	x2 := cx + r*math.Cos(end)
	y2 := cy + r*math.Sin(end)
	large := 0
	if end-start > math.Pi {
		large = 1
	}
	return "M" + fmtNum(cx) + "," + fmtNum(cy) +
		" L" + fmtNum(x1) + "," + fmtNum(y1) +
		" A" + fmtNum(r) + "," + fmtNum(r) + " 0 " + strconv.Itoa(large) + ",1 " +
		fmtNum(x2) + "," + fmtNum(y2) + " Z"
}

func chartLegend(series []SubjectScore) string {
	var b strings.Builder
	b.WriteString(`<div class="chart-legend" style="font-size:11px;display:flex;flex-wrap:wrap;gap:8px;margin-top:6px;">`)
	for i, s := range series {
		b.WriteString(`<span><span style="display:inline-block;width:10px;height:10px;background:` + paletteColor(i) + `;margin-right:4px;"></span>`)
		b.WriteString(esc(s.Subject) + ` ` + fmtNum(s.Score))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// --- vector chart variants ---
// These render directly from their structured content arrays; when none is
// supplied they fall back to representative sample data, since no generic
// data-binding contract exists for them.

func sampleItems() []ChartItem {
	items := make([]ChartItem, 0, len(sampleSeries))
	for i, s := range sampleSeries {
		items = append(items, ChartItem{Label: s.Subject, Value: s.Score, Color: paletteColor(i)})
	}
	return items
}

func itemColor(item ChartItem, i int) string {
	if item.Color != "" {
		return item.Color
	}
	return paletteColor(i)
}

func maxItemValue(items []ChartItem) float64 {
	m := 0.0
	for _, it := range items {
		if it.Value > m {
			m = it.Value
		}
	}
	if m <= 0 {
		m = 1
	}
	return m
}

func renderSegmentedBar(ctx *renderContext, p Placement) string {
	var content SegmentedBarContent
	decodeContent(p.Component.Content, &content)
	if len(content.ChartData) == 0 {
		score := 72.0
		content.ChartData = []SegmentedBarRow{{
			Label: "Overall",
			Segments: []ChartSegment{
				{Value: 60, Color: "#ee6666", Label: "Below"},
				{Value: 20, Color: "#fac858", Label: "Average"},
				{Value: 20, Color: "#91cc75", Label: "Above"},
			},
			ScoreValue: &score,
		}}
	}

	var b strings.Builder
	b.WriteString(`<div class="segmented-bar-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	for _, row := range content.ChartData {
		total := 0.0
		for _, seg := range row.Segments {
			total += seg.Value
		}
		if total <= 0 {
			total = 1
		}
		b.WriteString(`<div style="margin-bottom:10px;font-size:12px;">`)
		b.WriteString(`<div style="margin-bottom:3px;">` + esc(ctx.sub(row.Label)) + `</div>`)
		b.WriteString(`<div style="position:relative;display:flex;height:14px;border-radius:7px;overflow:visible;">`)
		for i, seg := range row.Segments {
			color := seg.Color
			if color == "" {
				color = paletteColor(i)
			}
			b.WriteString(`<div title="` + esc(seg.Label) + `" style="width:` + fmtNum(seg.Value/total*100) + `%;background:` + esc(color) + `;height:14px;"></div>`)
		}
		if row.ScoreValue != nil {
			pos := clamp(*row.ScoreValue/total*100, 0, 100)
			b.WriteString(`<div style="position:absolute;left:` + fmtNum(pos) + `%;top:-2px;width:10px;height:18px;margin-left:-5px;background:#333;border:2px solid #fff;border-radius:50%;"></div>`)
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderDonutChart(ctx *renderContext, p Placement) string {
	var content ItemChartContent
	decodeContent(p.Component.Content, &content)
	if len(content.Items) == 0 {
		content.Items = sampleItems()
	}

	size := 160.0
	r := size/2 - 16
	circumference := 2 * math.Pi * r
	total := 0.0
	for _, it := range content.Items {
		total += it.Value
	}
	if total <= 0 {
		total = 1
	}

	var b strings.Builder
	b.WriteString(`<div class="donut-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	b.WriteString(`<svg width="` + fmtNum(size) + `" height="` + fmtNum(size) + `" viewBox="0 0 ` + fmtNum(size) + ` ` + fmtNum(size) + `">`)
	offset := 0.0
	for i, it := range content.Items {
		dash := it.Value / total * circumference
		b.WriteString(`<circle cx="` + fmtNum(size/2) + `" cy="` + fmtNum(size/2) + `" r="` + fmtNum(r) + `" fill="none"`)
		b.WriteString(` stroke="` + esc(itemColor(it, i)) + `" stroke-width="22"`)
		b.WriteString(` stroke-dasharray="` + fmtNum(dash) + ` ` + fmtNum(circumference-dash) + `"`)
		b.WriteString(` stroke-dashoffset="` + fmtNum(-offset) + `" transform="rotate(-90 ` + fmtNum(size/2) + ` ` + fmtNum(size/2) + `)"/>`)
		offset += dash
	}
	b.WriteString(`</svg>`)
	b.WriteString(itemLegend(content.Items))
	b.WriteString(`</div>`)
	return b.String()
}

func renderVennChart(ctx *renderContext, p Placement) string {
	var content VennContent
	decodeContent(p.Component.Content, &content)
	if len(content.Circles) == 0 {
		content.Circles = []VennCircle{
			{Label: "Strengths", Color: "#5470c6"},
			{Label: "Interests", Color: "#91cc75"},
		}
		content.OverlapLabel = "Focus"
	}

	width, height, r := 320.0, 200.0, 70.0
	var b strings.Builder
	b.WriteString(`<div class="venn-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	b.WriteString(`<svg width="` + fmtNum(width) + `" height="` + fmtNum(height) + `" viewBox="0 0 ` + fmtNum(width) + ` ` + fmtNum(height) + `">`)
	n := len(content.Circles)
	for i, circle := range content.Circles {
		cx := width/2 + (float64(i)-float64(n-1)/2)*r
		color := circle.Color
		if color == "" {
			color = paletteColor(i)
		}
		b.WriteString(`<circle cx="` + fmtNum(cx) + `" cy="` + fmtNum(height/2) + `" r="` + fmtNum(r) + `" fill="` + esc(color) + `" fill-opacity="0.45"/>`)
		b.WriteString(`<text x="` + fmtNum(cx) + `" y="` + fmtNum(height/2-r-6) + `" font-size="11" text-anchor="middle">` + esc(ctx.sub(circle.Label)) + `</text>`)
	}
	if content.OverlapLabel != "" {
		b.WriteString(`<text x="` + fmtNum(width/2) + `" y="` + fmtNum(height/2+4) + `" font-size="11" font-weight="bold" text-anchor="middle">` + esc(ctx.sub(content.OverlapLabel)) + `</text>`)
	}
	b.WriteString(`</svg></div>`)
	return b.String()
}

func renderNightingaleChart(ctx *renderContext, p Placement) string {
	var content ItemChartContent
	decodeContent(p.Component.Content, &content)
	if len(content.Items) == 0 {
		content.Items = sampleItems()
	}

	size := 200.0
	cx, cy := size/2, size/2
	maxR := size/2 - 8
	max := maxItemValue(content.Items)
	sweep := 2 * math.Pi / float64(len(content.Items))

	var b strings.Builder
	b.WriteString(`<div class="nightingale-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	b.WriteString(`<svg width="` + fmtNum(size) + `" height="` + fmtNum(size) + `" viewBox="0 0 ` + fmtNum(size) + ` ` + fmtNum(size) + `">`)
	angle := -math.Pi / 2
	for i, it := range content.Items {
		r := math.Sqrt(it.Value/max) * maxR
		b.WriteString(`<path d="` + pieSlicePath(cx, cy, r, angle, angle+sweep) + `" fill="` + esc(itemColor(it, i)) + `" fill-opacity="0.85"/>`)
		angle += sweep
	}
	b.WriteString(`</svg>`)
	b.WriteString(itemLegend(content.Items))
	b.WriteString(`</div>`)
	return b.String()
}

func renderBubbleChart(ctx *renderContext, p Placement) string {
	var content ItemChartContent
	decodeContent(p.Component.Content, &content)
	if len(content.Items) == 0 {
		content.Items = sampleItems()
	}

	width, height := 360.0, 180.0
	max := maxItemValue(content.Items)
	step := width / float64(len(content.Items)+1)

	var b strings.Builder
	b.WriteString(`<div class="bubble-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	b.WriteString(`<svg width="` + fmtNum(width) + `" height="` + fmtNum(height) + `" viewBox="0 0 ` + fmtNum(width) + ` ` + fmtNum(height) + `">`)
	for i, it := range content.Items {
		cx := step * float64(i+1)
		// Alternate bubbles above/below the midline so neighbors overlap
		// less; positions stay deterministic.
		cy := height/2 + float64((i%2)*2-1)*height/8
		r := math.Sqrt(it.Value/max) * 34
		b.WriteString(`<circle cx="` + fmtNum(cx) + `" cy="` + fmtNum(cy) + `" r="` + fmtNum(r) + `" fill="` + esc(itemColor(it, i)) + `" fill-opacity="0.75"/>`)
		b.WriteString(`<text x="` + fmtNum(cx) + `" y="` + fmtNum(cy+4) + `" font-size="10" text-anchor="middle">` + esc(ctx.sub(it.Label)) + `</text>`)
	}
	b.WriteString(`</svg></div>`)
	return b.String()
}

func renderLollipopChart(ctx *renderContext, p Placement) string {
	var content ItemChartContent
	decodeContent(p.Component.Content, &content)
	if len(content.Items) == 0 {
		content.Items = sampleItems()
	}
	max := maxItemValue(content.Items)

	var b strings.Builder
	b.WriteString(`<div class="lollipop-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	for i, it := range content.Items {
		pct := it.Value / max * 100
		color := itemColor(it, i)
		b.WriteString(`<div style="display:flex;align-items:center;margin-bottom:8px;font-size:12px;">`)
		b.WriteString(`<span style="width:72px;flex-shrink:0;">` + esc(ctx.sub(it.Label)) + `</span>`)
		b.WriteString(`<div style="flex:1;position:relative;height:12px;">`)
		b.WriteString(`<div style="position:absolute;top:5px;left:0;width:` + fmtNum(pct) + `%;height:2px;background:` + esc(color) + `;"></div>`)
		b.WriteString(`<div style="position:absolute;top:0;left:` + fmtNum(pct) + `%;width:12px;height:12px;margin-left:-6px;border-radius:50%;background:` + esc(color) + `;"></div>`)
		b.WriteString(`</div>`)
		b.WriteString(`<span style="width:44px;text-align:right;flex-shrink:0;">` + fmtNum(it.Value) + `</span>`)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderWordCloud(ctx *renderContext, p Placement) string {
	var content WordCloudContent
	decodeContent(p.Component.Content, &content)
	if len(content.Words) == 0 {
		content.Words = []WordCloudWord{
			{Text: "Curious", Weight: 10}, {Text: "Diligent", Weight: 8},
			{Text: "Creative", Weight: 7}, {Text: "Teamwork", Weight: 5},
			{Text: "Focused", Weight: 4},
		}
	}
	maxWeight := 1.0
	for _, w := range content.Words {
		if w.Weight > maxWeight {
			maxWeight = w.Weight
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="word-cloud" style="text-align:center;line-height:1.4;">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	for i, w := range content.Words {
		fontSize := 12 + w.Weight/maxWeight*18
		color := w.Color
		if color == "" {
			color = paletteColor(i)
		}
		b.WriteString(`<span style="display:inline-block;margin:2px 6px;font-size:` + fmtPx(fontSize) + `;color:` + esc(color) + `;">`)
		b.WriteString(esc(ctx.sub(w.Text)))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderIconChart(ctx *renderContext, p Placement) string {
	var content IconChartContent
	decodeContent(p.Component.Content, &content)
	if content.Icon == "" {
		content.Icon = "★"
	}
	if len(content.Items) == 0 {
		content.Items = []ChartItem{
			{Label: "Effort", Value: 5}, {Label: "Attendance", Value: 4}, {Label: "Homework", Value: 3},
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="icon-chart" style="font-size:13px;">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	for i, it := range content.Items {
		count := int(math.Round(it.Value))
		if count < 0 {
			count = 0
		}
		if count > 10 {
			count = 10
		}
		b.WriteString(`<div style="display:flex;align-items:center;margin-bottom:4px;">`)
		b.WriteString(`<span style="width:90px;flex-shrink:0;">` + esc(ctx.sub(it.Label)) + `</span>`)
		b.WriteString(`<span style="color:` + esc(itemColor(it, i)) + `;letter-spacing:2px;">` + strings.Repeat(esc(content.Icon), count) + `</span>`)
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderStackedColumn(ctx *renderContext, p Placement) string {
	var content StackedColumnContent
	decodeContent(p.Component.Content, &content)
	if len(content.Labels) == 0 || len(content.Series) == 0 {
		content.Labels = []string{"Term 1", "Term 2", "Term 3"}
		content.Series = []StackSeries{
			{Label: "Exams", Color: "#5470c6", Data: []float64{40, 45, 50}},
			{Label: "Homework", Color: "#91cc75", Data: []float64{30, 28, 32}},
			{Label: "Participation", Color: "#fac858", Data: []float64{15, 18, 14}},
		}
	}

	chartHeight := 140.0
	maxTotal := 1.0
	for i := range content.Labels {
		total := 0.0
		for _, s := range content.Series {
			if i < len(s.Data) {
				total += s.Data[i]
			}
		}
		if total > maxTotal {
			maxTotal = total
		}
	}

	var b strings.Builder
	b.WriteString(`<div class="stacked-column-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	b.WriteString(`<div style="display:flex;align-items:flex-end;gap:16px;height:` + fmtPx(chartHeight) + `;">`)
	for i, label := range content.Labels {
		b.WriteString(`<div style="flex:1;display:flex;flex-direction:column-reverse;align-items:center;font-size:11px;">`)
		b.WriteString(`<span style="margin-top:4px;">` + esc(ctx.sub(label)) + `</span>`)
		for si, s := range content.Series {
			if i >= len(s.Data) {
				continue
			}
			h := s.Data[i] / maxTotal * (chartHeight - 20)
			color := s.Color
			if color == "" {
				color = paletteColor(si)
			}
			b.WriteString(`<div style="width:100%;max-width:36px;height:` + fmtPx(h) + `;background:` + esc(color) + `;"></div>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	b.WriteString(stackLegend(content.Series))
	b.WriteString(`</div>`)
	return b.String()
}

func renderTableChart(ctx *renderContext, p Placement) string {
	var content TableChartContent
	decodeContent(p.Component.Content, &content)
	if len(content.Headers) == 0 {
		content.Headers = []string{"Metric", "Value"}
	}
	if len(content.Rows) == 0 {
		content.Rows = [][]string{{"Average", "87.6"}, {"Highest", "95"}, {"Lowest", "78"}}
	}

	var b strings.Builder
	b.WriteString(`<div class="table-chart">`)
	b.WriteString(chartTitleMarkup(ctx, content.Title))
	b.WriteString(`<table style="width:100%;border-collapse:collapse;font-size:12px;"><thead><tr>`)
	for _, h := range content.Headers {
		b.WriteString(`<th style="border-bottom:2px solid #5470c6;padding:5px 8px;text-align:left;">` + esc(ctx.sub(h)) + `</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, row := range content.Rows {
		b.WriteString(`<tr>`)
		for _, cell := range row {
			b.WriteString(`<td style="border-bottom:1px solid #eee;padding:5px 8px;">` + esc(ctx.sub(cell)) + `</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table></div>`)
	return b.String()
}

func itemLegend(items []ChartItem) string {
	var b strings.Builder
	b.WriteString(`<div class="chart-legend" style="font-size:11px;display:flex;flex-wrap:wrap;gap:8px;margin-top:6px;">`)
	for i, it := range items {
		b.WriteString(`<span><span style="display:inline-block;width:10px;height:10px;background:` + esc(itemColor(it, i)) + `;margin-right:4px;"></span>`)
		b.WriteString(esc(it.Label) + ` ` + fmtNum(it.Value))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func stackLegend(series []StackSeries) string {
	var b strings.Builder
	b.WriteString(`<div class="chart-legend" style="font-size:11px;display:flex;flex-wrap:wrap;gap:8px;margin-top:6px;">`)
	for i, s := range series {
		color := s.Color
		if color == "" {
			color = paletteColor(i)
		}
		b.WriteString(`<span><span style="display:inline-block;width:10px;height:10px;background:` + esc(color) + `;margin-right:4px;"></span>`)
		b.WriteString(esc(s.Label))
		b.WriteString(`</span>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
