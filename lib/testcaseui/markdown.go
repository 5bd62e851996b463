// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testcaseui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bureau-foundation/dqview/lib/tui"
)

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParser
}

// forcedRenderer returns a lipgloss renderer pinned to ANSI256. The
// output always goes to the TUI, so auto-detection (which yields no
// color without a TTY) is bypassed.
func forcedRenderer() *lipgloss.Renderer {
	renderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)
	return renderer
}

// renderMarkdown renders a test case description for the detail pane.
// Soft line breaks become spaces so hard-wrapped descriptions reflow to
// the pane width.
func renderMarkdown(input string, theme tui.Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	renderer := &markdownRenderer{
		source:   source,
		theme:    theme,
		width:    width,
		lipgloss: forcedRenderer(),
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks the goldmark AST directly: inline content
// accumulates in a buffer and is word-wrapped when its block closes.
type markdownRenderer struct {
	source   []byte
	theme    tui.Theme
	width    int
	lipgloss *lipgloss.Renderer

	output strings.Builder
	inline strings.Builder

	indent        string
	pendingBullet string
	lists         []listState

	bold   int
	italic int
	strike int
}

type listState struct {
	ordered     bool
	counter     int
	bulletWidth int // Width of the open item's bullet.
}

func (renderer *markdownRenderer) style() lipgloss.Style {
	return renderer.lipgloss.NewStyle()
}

func (renderer *markdownRenderer) contentWidth() int {
	return max(renderer.width-ansi.StringWidth(renderer.indent), 10)
}

func (renderer *markdownRenderer) blankLine() {
	current := renderer.output.String()
	if current == "" || strings.HasSuffix(current, "\n\n") {
		return
	}
	if strings.HasSuffix(current, "\n") {
		renderer.output.WriteString("\n")
		return
	}
	renderer.output.WriteString("\n\n")
}

// emit writes wrapped block content, putting the pending list bullet
// on the first line and the indent on the rest.
func (renderer *markdownRenderer) emit(content string) {
	for index, line := range strings.Split(content, "\n") {
		prefix := renderer.indent
		if index == 0 && renderer.pendingBullet != "" {
			prefix = renderer.pendingBullet
			renderer.pendingBullet = ""
		}
		renderer.output.WriteString(prefix + line + "\n")
	}
}

func (renderer *markdownRenderer) flushInline() {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return
	}
	renderer.emit(ansi.Wrap(content, renderer.contentWidth(), " ,.;-+|"))
}

func (renderer *markdownRenderer) styledText(content string) string {
	style := renderer.style().Foreground(renderer.theme.NormalText)
	if renderer.bold > 0 {
		style = style.Bold(true)
	}
	if renderer.italic > 0 {
		style = style.Italic(true)
	}
	if renderer.strike > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if !entering {
			renderer.flushInline()
			if len(renderer.lists) == 0 {
				renderer.blankLine()
			}
		}

	case ast.KindHeading:
		if !entering {
			content := ansi.Strip(renderer.inline.String())
			renderer.inline.Reset()
			style := renderer.style().Bold(true).Foreground(renderer.theme.HeaderForeground)
			renderer.blankLine()
			renderer.emit(ansi.Wrap(style.Render(content), renderer.contentWidth(), " "))
			renderer.blankLine()
		}

	case ast.KindFencedCodeBlock, ast.KindCodeBlock:
		if entering {
			language := ""
			if fenced, ok := node.(*ast.FencedCodeBlock); ok {
				language = string(fenced.Language(renderer.source))
			}
			renderer.blankLine()
			renderer.emit(highlightCode(renderer.lines(node), language, renderer.theme))
			renderer.blankLine()
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			renderer.indent += "│ "
		} else {
			renderer.indent = strings.TrimSuffix(renderer.indent, "│ ")
			renderer.blankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			renderer.lists = append(renderer.lists, listState{ordered: list.IsOrdered(), counter: list.Start})
		} else {
			renderer.lists = renderer.lists[:len(renderer.lists)-1]
			if len(renderer.lists) == 0 {
				renderer.blankLine()
			}
		}

	case ast.KindListItem:
		if len(renderer.lists) == 0 {
			break
		}
		top := &renderer.lists[len(renderer.lists)-1]
		if !entering {
			renderer.indent = renderer.indent[:len(renderer.indent)-top.bulletWidth]
			break
		}
		bullet := "- "
		if top.ordered {
			bullet = fmt.Sprintf("%d. ", top.counter)
			top.counter++
		}
		top.bulletWidth = len(bullet)
		renderer.pendingBullet = renderer.indent + bullet
		renderer.indent += strings.Repeat(" ", len(bullet))

	case ast.KindThematicBreak:
		if entering {
			rule := renderer.style().Foreground(renderer.theme.BorderColor).Render(strings.Repeat("─", renderer.contentWidth()))
			renderer.blankLine()
			renderer.emit(rule)
			renderer.blankLine()
		}

	case ast.KindHTMLBlock:
		if entering {
			if stripped := strings.TrimSpace(stripHTMLTags(renderer.lines(node))); stripped != "" {
				renderer.emit(renderer.style().Foreground(renderer.theme.FaintText).Render(stripped))
				renderer.blankLine()
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			renderer.inline.WriteString(renderer.styledText(string(textNode.Segment.Value(renderer.source))))
			if textNode.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		delta := 1
		if !entering {
			delta = -1
		}
		if node.(*ast.Emphasis).Level >= 2 {
			renderer.bold += delta
		} else {
			renderer.italic += delta
		}

	case extast.KindStrikethrough:
		if entering {
			renderer.strike++
		} else {
			renderer.strike--
		}

	case ast.KindCodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			renderer.inline.WriteString(renderer.style().Foreground(renderer.theme.AccentColor).Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if !entering {
			destination := string(node.(*ast.Link).Destination)
			if destination != "" {
				renderer.inline.WriteString(" " + renderer.style().Foreground(renderer.theme.FaintText).Render("("+destination+")"))
			}
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(renderer.source))
			renderer.inline.WriteString(renderer.style().Foreground(renderer.theme.FaintText).Render(url))
		}

	case ast.KindRawHTML:
		if entering {
			raw := node.(*ast.RawHTML)
			var html strings.Builder
			for index := 0; index < raw.Segments.Len(); index++ {
				segment := raw.Segments.At(index)
				html.Write(segment.Value(renderer.source))
			}
			if stripped := stripHTMLTags(html.String()); stripped != "" {
				renderer.inline.WriteString(renderer.styledText(stripped))
			}
		}
	}
	return ast.WalkContinue, nil
}

// lines joins the raw source lines of a block node.
func (renderer *markdownRenderer) lines(node ast.Node) string {
	var content strings.Builder
	lines := node.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		content.Write(segment.Value(renderer.source))
	}
	return strings.TrimRight(content.String(), "\n")
}

// highlightCode syntax-highlights code with chroma. Unknown languages
// and chroma errors fall back to FaintText.
func highlightCode(code, language string, theme tui.Theme) string {
	faint := forcedRenderer().NewStyle().Foreground(theme.FaintText)
	if language == "" {
		return faint.Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return faint.Render(code)
	}
	return strings.TrimRight(buffer.String(), "\n")
}

// stripHTMLTags removes HTML tags, keeping the text between them.
// Descriptions edited in the catalog's rich text editor carry markup.
func stripHTMLTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			result.WriteRune(character)
		}
	}
	return result.String()
}
