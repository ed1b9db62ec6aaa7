package pipeline

import (
	"context"
	"strings"
)

// CSSInjector inserts a stylesheet into an HTML document.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block. The exporter uses it to add
// the print stylesheet to built pages.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, else after <body>,
// else at the start of the content.
func (CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}
	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// PrintCSS returns the stylesheet applied to pages exported as PDF: site
// chrome and the viewer panel are hidden and the page box is sized.
func PrintCSS(pageSize string) string {
	if pageSize == "" {
		pageSize = "A4"
	}
	return "@page { size: " + pageSize + "; margin: 18mm 16mm; }\n" +
		"@media print {\n" +
		"  header.site-header, footer.site-footer, nav, .viewer-panel, .copy-button { display: none !important; }\n" +
		"  body { background: #fff; color: #000; }\n" +
		"  pre { white-space: pre-wrap; }\n" +
		"}\n"
}
