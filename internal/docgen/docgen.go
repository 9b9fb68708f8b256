// Package docgen renders a script's comment registry into the
// `--doc` HTML artifact, letting doc comments use ordinary Markdown
// inline formatting.
package docgen

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hassan/script/internal/runctx"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 800px; margin: 2rem auto; }
.comment { border-left: 3px solid #ccc; padding-left: 1rem; margin-bottom: 1.5rem; }
.pos { color: #888; font-size: 0.85em; }
</style>
</head>
<body>
<h1>%s</h1>
%s
</body>
</html>
`

// Render walks ctx's comment registry in source order and emits one
// HTML page, converting each comment's text from Markdown.
func Render(filename string, ctx *runctx.Context) (string, error) {
	keys := make([]runctx.CommentKey, 0, len(ctx.Comments))
	for k := range ctx.Comments {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Line != keys[j].Line {
			return keys[i].Line < keys[j].Line
		}
		return keys[i].Column < keys[j].Column
	})

	var body strings.Builder
	md := goldmark.New()
	for _, k := range keys {
		for _, raw := range ctx.Comments[k] {
			var out bytes.Buffer
			if err := md.Convert([]byte(stripCommentMarkers(raw)), &out); err != nil {
				return "", err
			}
			fmt.Fprintf(&body, "<div class=\"comment\">\n<div class=\"pos\">%d:%d</div>\n%s</div>\n",
				k.Line, k.Column, out.String())
		}
	}
	if body.Len() == 0 {
		body.WriteString("<p><em>No documented declarations.</em></p>\n")
	}

	title := html.EscapeString(filename)
	return fmt.Sprintf(pageTemplate, title, title, body.String()), nil
}

// stripCommentMarkers removes the lexer's `//` / `/* */` delimiters
// so the remaining text is plain Markdown.
func stripCommentMarkers(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "///")
	s = strings.TrimPrefix(s, "//")
	s = strings.TrimPrefix(s, "/**")
	s = strings.TrimPrefix(s, "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}
