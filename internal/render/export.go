package render

import (
	"strconv"
	"strings"
)

// Render assembles the full export document: print-safe head, one wrapper
// per page with that page's components in reading order, and a page-number
// footer when the document spans multiple pages. The result is a plain
// string; callers either serve it as the HTML export or hand it to a
// headless rasterizer for PDF/PNG. Identical inputs produce byte-identical
// output.
func Render(components []Component, data map[string]any, templateName, backgroundColor, backgroundImageURL string) string {
	return RenderWithConfig(components, data, templateName, backgroundColor, backgroundImageURL, DefaultPageConfig())
}

func RenderWithConfig(components []Component, data map[string]any, templateName, backgroundColor, backgroundImageURL string, cfg PageConfig) string {
	placements, totalPages := Paginate(components, cfg)
	ctx := &renderContext{cfg: cfg, data: data}

	if backgroundColor == "" {
		backgroundColor = "#ffffff"
	}

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(esc(Substitute(templateName, data)))
	b.WriteString("</title>\n<style>\n")
	writeDocumentCSS(&b, cfg, backgroundColor, backgroundImageURL)
	b.WriteString("</style>\n</head>\n<body>\n")

	for page := 1; page <= totalPages; page++ {
		b.WriteString(`<div class="page">`)
		for _, p := range placements {
			if p.Page != page {
				continue
			}
			b.WriteString(RenderComponent(ctx, p))
		}
		if totalPages > 1 {
			b.WriteString(`<div class="page-footer">Page `)
			b.WriteString(strconv.Itoa(page))
			b.WriteString(` of `)
			b.WriteString(strconv.Itoa(totalPages))
			b.WriteString(`</div>`)
		}
		b.WriteString("</div>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeDocumentCSS(b *strings.Builder, cfg PageConfig, backgroundColor, backgroundImageURL string) {
	b.WriteString("* { margin: 0; padding: 0; box-sizing: border-box; -webkit-print-color-adjust: exact; print-color-adjust: exact; }\n")
	b.WriteString("body { font-family: 'Helvetica Neue', Arial, sans-serif; color: #333; }\n")
	b.WriteString("@page { size: A4; margin: 0; }\n")

	b.WriteString(".page { position: relative; width: " + fmtPx(cfg.PageWidth) + "; height: " + fmtPx(cfg.PageHeight) + ";")
	b.WriteString(" background-color: " + backgroundColor + ";")
	if backgroundImageURL != "" {
		b.WriteString(" background-image: url('" + backgroundImageURL + "'); background-size: cover; background-position: center;")
	}
	b.WriteString(" overflow: hidden; page-break-after: always; }\n")

	b.WriteString(".page:last-child { page-break-after: auto; }\n")
	b.WriteString("@media screen { .page { margin: 16px auto; box-shadow: 0 2px 8px rgba(0,0,0,0.15); } }\n")
	b.WriteString("@media print { .page { margin: 0; box-shadow: none; } }\n")
	b.WriteString(".page-footer { position: absolute; bottom: 12px; left: 0; right: 0; text-align: center; font-size: 11px; color: #999; }\n")
}
