package generator

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrEmptyOutput is returned when the model produced nothing usable.
var ErrEmptyOutput = errors.New("model returned empty markdown")

const summaryLimit = 200

// PostProcess coerces raw model output into a Post. A leading level-one
// heading, ATX or setext, is removed from the content and becomes the title;
// an empty one falls back to fallbackTitle. The first paragraph
// becomes the summary and a trailing "Tags:" line supplies tags when the
// caller gave none. CreatedAt is left for the caller to stamp.
func PostProcess(raw, fallbackTitle string, tags []string) (Post, error) {
	md := stripFence(strings.TrimSpace(raw))
	if md == "" {
		return Post{}, ErrEmptyOutput
	}

	md, modelTags := extractTags(md)
	src := []byte(md)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	title := ""
	if h, ok := doc.FirstChild().(*ast.Heading); ok && h.Level == 1 {
		title = plainText(h, src)
		// src starts at the heading since md is trimmed.
		src = src[leadingHeadingEnd(h, src):]
	}
	if title == "" {
		title = fallbackTitle
	}

	content := strings.TrimSpace(string(src))
	if content == "" {
		return Post{}, ErrEmptyOutput
	}

	if len(tags) == 0 {
		tags = modelTags
	}

	return Post{
		Title:   title,
		Content: content,
		Tags:    tags,
		Summary: extractSummary(doc, []byte(md)),
	}, nil
}

// stripFence removes a ```markdown fence wrapped around the whole answer.
func stripFence(md string) string {
	if !strings.HasPrefix(md, "```") || !strings.HasSuffix(md, "```") || len(md) < 6 {
		return md
	}
	nl := strings.IndexByte(md, '\n')
	if nl < 0 {
		return md
	}
	return strings.TrimSpace(md[nl+1 : len(md)-3])
}

// extractTags pulls a final "Tags: a, b" line off the markdown.
func extractTags(md string) (string, []string) {
	idx := strings.LastIndexByte(md, '\n')
	last := strings.TrimSpace(md[idx+1:])
	if len(last) < 5 || !strings.EqualFold(last[:5], "tags:") {
		return md, nil
	}
	var tags []string
	for _, t := range strings.Split(last[5:], ",") {
		t = strings.Trim(strings.TrimSpace(t), "#*`")
		if t != "" {
			tags = append(tags, t)
		}
	}
	if idx < 0 {
		return "", tags
	}
	return strings.TrimSpace(md[:idx]), tags
}

// leadingHeadingEnd returns the offset just past a heading at the start of src.
func leadingHeadingEnd(h *ast.Heading, src []byte) int {
	if bytes.HasPrefix(bytes.TrimLeft(src, " "), []byte("#")) {
		return lineEnd(src, 0)
	}
	if h.Lines().Len() == 0 {
		return 0
	}
	// setext: the underline follows the last content line
	last := h.Lines().At(h.Lines().Len() - 1)
	return lineEnd(src, lineEnd(src, last.Start))
}

func lineEnd(src []byte, from int) int {
	if nl := bytes.IndexByte(src[from:], '\n'); nl >= 0 {
		return from + nl + 1
	}
	return len(src)
}

func extractSummary(doc ast.Node, src []byte) string {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*ast.Paragraph); !ok {
			continue
		}
		if s := plainText(n, src); s != "" {
			return truncate(s, summaryLimit)
		}
	}
	return ""
}

func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}
