package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const mermaidScript = "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js"

const pageStyle = `body{font-family:-apple-system,"Segoe UI",Roboto,Helvetica,Arial,sans-serif;line-height:1.6;color:#1f2937;margin:0;padding:32px 40px;}
h1,h2,h3{color:#312e81;line-height:1.25;}
h1{border-bottom:2px solid #e0e7ff;padding-bottom:6px;}
code{background:#f3f4f6;border-radius:4px;padding:1px 4px;font-size:0.9em;}
pre{background:#f9fafb;border:1px solid #e5e7eb;border-radius:6px;padding:12px;overflow-x:auto;}
pre code{background:none;padding:0;}
blockquote{border-left:4px solid #c7d2fe;margin:0;padding-left:12px;color:#4b5563;}
table{border-collapse:collapse;}
th,td{border:1px solid #e5e7eb;padding:4px 8px;}
.mermaid{text-align:center;margin:16px 0;}
header.meta{font-size:0.85em;color:#6b7280;margin-bottom:24px;}`

// renderDiagrams swaps ```mermaid blocks for rendered diagrams. It resolves
// true even when the mermaid script is unavailable so printing never stalls.
const diagramScript = `window.renderDiagrams = async function () {
  const blocks = document.querySelectorAll('code.language-mermaid');
  if (!blocks.length) return true;
  for (let i = 0; i < 50 && !window.mermaid; i++) {
    await new Promise((r) => setTimeout(r, 100));
  }
  if (!window.mermaid) return true;
  blocks.forEach((code) => {
    const div = document.createElement('div');
    div.className = 'mermaid';
    div.textContent = code.textContent;
    code.parentElement.replaceWith(div);
  });
  try {
    window.mermaid.initialize({ startOnLoad: false, theme: 'neutral' });
    await window.mermaid.run({ querySelector: '.mermaid' });
  } catch (e) {}
  return true;
};`

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTMLDocument renders Markdown into a standalone, printable page.
func HTMLDocument(source, styleLabel string) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(source), &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	title := "Study notes"
	if styleLabel != "" {
		title = "Study notes · " + styleLabel
	}
	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title>\n", html.EscapeString(title))
	fmt.Fprintf(&page, "<style>%s</style>\n", pageStyle)
	fmt.Fprintf(&page, "<script src=%q></script>\n<script>%s</script>\n", mermaidScript, diagramScript)
	page.WriteString("</head><body>\n")
	fmt.Fprintf(&page, "<header class=\"meta\">%s</header>\n", html.EscapeString(title))
	page.Write(body.Bytes())
	page.WriteString("</body></html>\n")
	return page.String(), nil
}
