// Copyright 2026 The VibeCraft Authors
// SPDX-License-Identifier: Apache-2.0

// Package markdown renders a markdown document to styled terminal
// text for the "vibecraft docs" command.
//
// Grounded on the teacher's lib/ticketui/markdown.go: goldmark parses
// to an AST, and a direct ast.Walk (rather than goldmark's streaming
// NodeRendererFunc interface) accumulates inline content per block
// so it can be word-wrapped as a unit before being written out.
// Trimmed down from the teacher's version by dropping fenced-code
// syntax highlighting (alecthomas/chroma) and forced ANSI256 color
// profile detection (muesli/termenv): VibeCraft's rendered documents
// are prose — tool descriptions and the safety model overview — with
// no embedded code blocks, so neither dependency has anything to
// exercise here.
package markdown

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var (
	parser    goldmark.Markdown
	headingFg = lipgloss.Color("212")
	faintFg   = lipgloss.Color("241")
	borderFg  = lipgloss.Color("238")
)

func init() {
	parser = goldmark.New(goldmark.WithExtensions(extension.GFM))
}

// Render parses input as GitHub-flavored markdown and returns it as
// plain text styled for an ANSI terminal, word-wrapped to width.
func Render(input string, width int) string {
	if input == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	source := []byte(input)
	document := parser.Parser().Parse(text.NewReader(source))

	r := &renderer{source: source, width: width}
	ast.Walk(document, r.walk)
	return strings.TrimRight(r.output.String(), "\n")
}

type renderer struct {
	source []byte
	width  int
	output strings.Builder
	inline strings.Builder

	boldCount   int
	italicCount int
	listDepth   int
	orderedAt   []int
	inListItem  int
}

func (r *renderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			if r.inListItem == 0 {
				r.inline.Reset()
			}
		} else if r.inListItem == 0 {
			r.flushParagraph()
		}

	case ast.KindHeading:
		if entering {
			r.inline.Reset()
		} else {
			r.flushHeading(node.(*ast.Heading).Level)
		}

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			r.renderCodeBlock(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindList:
		if entering {
			r.listDepth++
			if node.(*ast.List).IsOrdered() {
				r.orderedAt = append(r.orderedAt, node.(*ast.List).Start)
			} else {
				r.orderedAt = append(r.orderedAt, 0)
			}
		} else {
			r.listDepth--
			r.orderedAt = r.orderedAt[:len(r.orderedAt)-1]
			r.output.WriteString("\n")
		}

	case ast.KindListItem:
		if entering {
			r.inline.Reset()
			r.inListItem++
		} else {
			r.inListItem--
			r.flushListItem()
		}

	case ast.KindThematicBreak:
		if entering {
			style := lipgloss.NewStyle().Foreground(borderFg)
			r.output.WriteString(style.Render(strings.Repeat("─", r.width)) + "\n\n")
		}

	case ast.KindText:
		if entering {
			r.writeInlineText(node.(*ast.Text))
		}

	case ast.KindEmphasis:
		emphasis := node.(*ast.Emphasis)
		if emphasis.Level >= 2 {
			if entering {
				r.boldCount++
			} else {
				r.boldCount--
			}
		} else {
			if entering {
				r.italicCount++
			} else {
				r.italicCount--
			}
		}

	case ast.KindCodeSpan:
		if entering {
			r.renderCodeSpan(node)
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			link := node.(*ast.AutoLink)
			r.inline.WriteString(lipgloss.NewStyle().Foreground(faintFg).Render(string(link.URL(r.source))))
		}

	case ast.KindLink:
		if entering {
			r.renderLink(node.(*ast.Link))
			return ast.WalkSkipChildren, nil
		}
	}
	return ast.WalkContinue, nil
}

func (r *renderer) styled(content string) string {
	style := lipgloss.NewStyle()
	if r.boldCount > 0 {
		style = style.Bold(true)
	}
	if r.italicCount > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

func (r *renderer) writeInlineText(node *ast.Text) {
	value := string(node.Segment.Value(r.source))
	r.inline.WriteString(r.styled(value))
	if node.SoftLineBreak() {
		r.inline.WriteString(" ")
	}
	if node.HardLineBreak() {
		r.inline.WriteString("\n")
	}
}

func (r *renderer) flushParagraph() {
	content := r.inline.String()
	r.inline.Reset()
	if content == "" {
		return
	}
	r.output.WriteString(ansi.Wrap(content, r.width, " ,.;-"))
	r.output.WriteString("\n\n")
}

func (r *renderer) flushHeading(level int) {
	content := ansi.Strip(r.inline.String())
	r.inline.Reset()
	if content == "" {
		return
	}
	style := lipgloss.NewStyle().Bold(true)
	if level <= 2 {
		style = style.Foreground(headingFg)
	}
	r.output.WriteString(style.Render(strings.ToUpper(content)))
	r.output.WriteString("\n\n")
}

func (r *renderer) flushListItem() {
	content := strings.TrimSpace(r.inline.String())
	r.inline.Reset()
	if content == "" {
		return
	}
	indent := strings.Repeat("  ", r.listDepth-1)
	depth := len(r.orderedAt) - 1
	var bullet string
	if depth >= 0 && r.orderedAt[depth] > 0 {
		bullet = strconv.Itoa(r.orderedAt[depth]) + ". "
		r.orderedAt[depth]++
	} else {
		bullet = "- "
	}
	wrapped := ansi.Wrap(content, r.width-len(indent)-len(bullet), " ,.;-")
	r.output.WriteString(indent + bullet + wrapped + "\n")
}

func (r *renderer) renderCodeBlock(node ast.Node) {
	var code strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(r.source))
	}
	faint := lipgloss.NewStyle().Foreground(faintFg)
	for _, line := range strings.Split(strings.TrimRight(code.String(), "\n"), "\n") {
		r.output.WriteString("    " + faint.Render(line) + "\n")
	}
	r.output.WriteString("\n")
}

func (r *renderer) renderCodeSpan(node ast.Node) {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if textNode, ok := child.(*ast.Text); ok {
			code.Write(textNode.Segment.Value(r.source))
		}
	}
	r.inline.WriteString(lipgloss.NewStyle().Foreground(faintFg).Render(code.String()))
}

func (r *renderer) renderLink(node *ast.Link) {
	savedInline := r.inline.String()
	r.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, r.walk)
	}
	linkText := r.inline.String()
	r.inline.Reset()
	r.inline.WriteString(savedInline)
	r.inline.WriteString(linkText)
	if url := string(node.Destination); url != "" {
		r.inline.WriteString(" " + lipgloss.NewStyle().Foreground(faintFg).Render("("+url+")"))
	}
}
