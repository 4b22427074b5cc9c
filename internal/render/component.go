package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Component type catalog. Persisted templates may carry tags outside this
// list (future schema versions); the renderer keeps a catch-all branch for
// those instead of failing.
const (
	TypeHeader        = "header"
	TypeStudentInfo   = "student-info"
	TypeScoreTable    = "score-table"
	TypeTextBlock     = "text-block"
	TypeDivider       = "divider"
	TypeSpacer        = "spacer"
	TypePageBreak     = "page-break"
	TypeContainer     = "container"
	TypeImage         = "image"
	TypeQRCode        = "qr-code"
	TypeBarChart      = "bar-chart"
	TypeColumnChart   = "column-chart"
	TypeLineChart     = "line-chart"
	TypePieChart      = "pie-chart"
	TypeSegmentedBar  = "segmented-bar-chart"
	TypeDonutChart    = "donut-chart"
	TypeVennChart     = "venn-chart"
	TypeNightingale   = "nightingale-chart"
	TypeBubbleChart   = "bubble-chart"
	TypeLollipopChart = "lollipop-chart"
	TypeWordCloud     = "word-cloud"
	TypeIconChart     = "icon-chart"
	TypeStackedColumn = "stacked-column-chart"
	TypeTableChart    = "table-chart"
)

// Position is a point in canvas pixel space.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Component is one placed element in a template. Content and Style are kept
// as free-form maps at the tree level so unknown keys survive a load/save
// round trip; each renderer branch decodes them into its own typed record.
type Component struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Content  map[string]any `json:"content,omitempty"`
	Style    map[string]any `json:"style,omitempty"`
	Position Position       `json:"position"`
	Children []Component    `json:"children,omitempty"`
}

// Style holds the visual properties shared by every component type. Width
// and Height accept either numbers or "NNpx" strings, matching what editors
// persist.
type Style struct {
	BackgroundColor string         `mapstructure:"backgroundColor"`
	TextColor       string         `mapstructure:"textColor"`
	FontSize        any            `mapstructure:"fontSize"`
	Width           any            `mapstructure:"width"`
	Height          any            `mapstructure:"height"`
	Padding         any            `mapstructure:"padding"`
	BorderRadius    any            `mapstructure:"borderRadius"`
	Extra           map[string]any `mapstructure:",remain"`
}

// Per-type content records. The ",remain" bag keeps keys from newer schema
// versions intact through decode.

type HeaderContent struct {
	Title    string         `mapstructure:"title"`
	Subtitle string         `mapstructure:"subtitle"`
	Extra    map[string]any `mapstructure:",remain"`
}

type StudentInfoContent struct {
	StudentName string         `mapstructure:"studentName"`
	StudentID   string         `mapstructure:"studentId"`
	Classroom   string         `mapstructure:"classroom"`
	Teacher     string         `mapstructure:"teacher"`
	Extra       map[string]any `mapstructure:",remain"`
}

type ScoreTableContent struct {
	Headers []string       `mapstructure:"headers"`
	Rows    [][]string     `mapstructure:"rows"`
	Extra   map[string]any `mapstructure:",remain"`
}

type TextBlockContent struct {
	Text  string         `mapstructure:"text"`
	Extra map[string]any `mapstructure:",remain"`
}

type ContainerContent struct {
	LayoutDirection string         `mapstructure:"layoutDirection"`
	ItemSpacing     string         `mapstructure:"itemSpacing"`
	Extra           map[string]any `mapstructure:",remain"`
}

type ImageContent struct {
	Src     string         `mapstructure:"src"`
	Caption string         `mapstructure:"caption"`
	Alt     string         `mapstructure:"alt"`
	Extra   map[string]any `mapstructure:",remain"`
}

type QRCodeContent struct {
	Value string         `mapstructure:"value"`
	Label string         `mapstructure:"label"`
	Extra map[string]any `mapstructure:",remain"`
}

// ChartContent covers the data-bound variants (bar/column/line/pie). Data
// may be a "{{variable}}" reference, a literal JSON string, or an inline
// labels/datasets object.
type ChartContent struct {
	Title string         `mapstructure:"title"`
	Data  any            `mapstructure:"data"`
	Extra map[string]any `mapstructure:",remain"`
}

type ChartSegment struct {
	Value float64 `mapstructure:"value"`
	Color string  `mapstructure:"color"`
	Label string  `mapstructure:"label"`
}

type SegmentedBarRow struct {
	Label      string         `mapstructure:"label"`
	Segments   []ChartSegment `mapstructure:"segments"`
	ScoreValue *float64       `mapstructure:"scoreValue"`
}

type SegmentedBarContent struct {
	Title     string            `mapstructure:"title"`
	ChartData []SegmentedBarRow `mapstructure:"chartData"`
	Extra     map[string]any    `mapstructure:",remain"`
}

// ChartItem is the shared label/value/color shape used by the vector chart
// variants (donut, nightingale, bubble, lollipop, icon chart).
type ChartItem struct {
	Label string  `mapstructure:"label"`
	Value float64 `mapstructure:"value"`
	Color string  `mapstructure:"color"`
}

type ItemChartContent struct {
	Title string         `mapstructure:"title"`
	Items []ChartItem    `mapstructure:"items"`
	Extra map[string]any `mapstructure:",remain"`
}

type VennCircle struct {
	Label string `mapstructure:"label"`
	Color string `mapstructure:"color"`
}

type VennContent struct {
	Title        string         `mapstructure:"title"`
	Circles      []VennCircle   `mapstructure:"circles"`
	OverlapLabel string         `mapstructure:"overlapLabel"`
	Extra        map[string]any `mapstructure:",remain"`
}

type WordCloudWord struct {
	Text   string  `mapstructure:"text"`
	Weight float64 `mapstructure:"weight"`
	Color  string  `mapstructure:"color"`
}

type WordCloudContent struct {
	Title string          `mapstructure:"title"`
	Words []WordCloudWord `mapstructure:"words"`
	Extra map[string]any  `mapstructure:",remain"`
}

type IconChartContent struct {
	Title string         `mapstructure:"title"`
	Icon  string         `mapstructure:"icon"`
	Items []ChartItem    `mapstructure:"items"`
	Extra map[string]any `mapstructure:",remain"`
}

type StackSeries struct {
	Label string    `mapstructure:"label"`
	Color string    `mapstructure:"color"`
	Data  []float64 `mapstructure:"data"`
}

type StackedColumnContent struct {
	Title  string         `mapstructure:"title"`
	Labels []string       `mapstructure:"labels"`
	Series []StackSeries  `mapstructure:"series"`
	Extra  map[string]any `mapstructure:",remain"`
}

type TableChartContent struct {
	Title   string         `mapstructure:"title"`
	Headers []string       `mapstructure:"headers"`
	Rows    [][]string     `mapstructure:"rows"`
	Extra   map[string]any `mapstructure:",remain"`
}

// decodeContent fills dst from a free-form content/style map. Decode
// failures leave dst at its zero value so the branch falls back to its
// defaults; nothing in the render path returns an error for shape reasons.
func decodeContent(src map[string]any, dst any) {
	if src == nil {
		return
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return
	}
	_ = dec.Decode(src)
}

func decodeStyle(c *Component) Style {
	var s Style
	decodeContent(c.Style, &s)
	return s
}

// parsePixels converts a style dimension to a float pixel count. Accepts
// numbers and "NNpx" strings; anything malformed yields the fallback so the
// paginator never accumulates NaN.
func parsePixels(v any, fallback float64) float64 {
	switch n := v.(type) {
	case nil:
		return fallback
	case float64:
		if n != n || n < 0 {
			return fallback
		}
		return n
	case float32:
		return parsePixels(float64(n), fallback)
	case int:
		return parsePixels(float64(n), fallback)
	case int64:
		return parsePixels(float64(n), fallback)
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(n), "px"))
		if s == "" {
			return fallback
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != f || f < 0 {
			return fallback
		}
		return f
	default:
		return fallback
	}
}

// CollectVariables walks a component tree and returns every {{variable}}
// referenced in string content values, de-duplicated in first-seen order.
func CollectVariables(components []Component) []string {
	var names []string
	seen := make(map[string]bool)
	var visit func(cs []Component)
	visit = func(cs []Component) {
		for _, c := range cs {
			for _, v := range sortedContentStrings(c.Content) {
				for _, name := range ExtractVariables(v) {
					if !seen[name] {
						seen[name] = true
						names = append(names, name)
					}
				}
			}
			visit(c.Children)
		}
	}
	visit(components)
	return names
}

// sortedContentStrings returns the string values of a content map in key
// order so extraction is deterministic.
func sortedContentStrings(content map[string]any) []string {
	if len(content) == 0 {
		return nil
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []string
	for _, k := range keys {
		if s, ok := content[k].(string); ok {
			out = append(out, s)
		}
	}
	return out
}
