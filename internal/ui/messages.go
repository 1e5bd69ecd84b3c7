package ui

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/travelchat/internal/api"
)

// Text shown by the message list.
const (
	WelcomeTitle    = "Welcome to your travel chat!"
	WelcomeSubtitle = "Ask me anything about travel destinations, itineraries, recommendations, or travel tips."
	EmptyReplyText  = "No answer received."

	// TimestampLayout matches a 12-hour clock such as "3:04 PM".
	TimestampLayout = "3:04 PM"
)

var (
	boldPattern       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	inlineCodePattern = regexp.MustCompile("`([^`]+)`")
	numberedPattern   = regexp.MustCompile(`^(\d{1,2})\. `)
)

// RoleLabel returns the display name for a message author.
func RoleLabel(role api.Role) string {
	if role == api.RoleUser {
		return "You"
	}
	return "Assistant"
}

// RenderMessages renders msgs in order, wrapped to width. Every message is
// stamped with now: the backend keeps no timestamps, so the clock shows when
// the list was drawn. An empty list renders the welcome text.
func RenderMessages(msgs []api.Message, width int, now time.Time) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	if len(msgs) == 0 {
		return renderWelcome(width)
	}

	stamp := ChatTimestampStyle.Render(now.Format(TimestampLayout))
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, renderMessage(msg, width, stamp))
	}
	return strings.Join(blocks, "\n\n")
}

func renderMessage(msg api.Message, width int, stamp string) string {
	labelStyle := ChatAssistantStyle
	if msg.Role == api.RoleUser {
		labelStyle = ChatUserStyle
	}
	header := labelStyle.Render(RoleLabel(msg.Role)) + "  " + stamp

	content := strings.TrimSpace(msg.Content)
	var body string
	switch {
	case content == "" && msg.Role == api.RoleAssistant:
		body = lipgloss.NewStyle().Foreground(ColorTextMuted).Italic(true).Render(EmptyReplyText)
	case msg.Role == api.RoleUser:
		body = ChatMessageStyle.Render(wrapText(content, width))
	default:
		body = renderMarkdown(content, width)
	}
	return header + "\n" + body
}

func renderWelcome(width int) string {
	title := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Render(WelcomeTitle)
	subtitle := lipgloss.NewStyle().Foreground(ColorTextMuted).Render(wrapText(WelcomeSubtitle, width))
	return title + "\n\n" + subtitle
}

// renderNoThreadMessage is shown in place of the chat when no conversation
// is open.
func renderNoThreadMessage() string {
	msgStyle := lipgloss.NewStyle().Foreground(ColorTextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)

	var sb strings.Builder
	sb.WriteString(msgStyle.Italic(true).Render("No conversation selected"))
	sb.WriteString("\n\n")
	sb.WriteString(msgStyle.Render("To get started:"))
	sb.WriteString("\n")
	sb.WriteString(msgStyle.Render("  • Press "))
	sb.WriteString(keyStyle.Render("n"))
	sb.WriteString(msgStyle.Render(" to start a new chat"))
	sb.WriteString("\n")
	sb.WriteString(msgStyle.Render("  • Press "))
	sb.WriteString(keyStyle.Render("enter"))
	sb.WriteString(msgStyle.Render(" on a conversation to open it"))
	return sb.String()
}

// wrapText word-wraps text to width, breaking words that are longer than a line.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Hardwrap(ansi.Wordwrap(text, width, ""), width, true)
}

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(CurrentTheme().CodeStyle)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return strings.TrimRight(buf.String(), "\n")
}

// renderInlineMarkdown styles **bold** and `code` spans in a line.
func renderInlineMarkdown(line string) string {
	// Code spans first so their contents are not bolded
	var spans []string
	line = inlineCodePattern.ReplaceAllStringFunc(line, func(match string) string {
		code := inlineCodePattern.FindStringSubmatch(match)[1]
		spans = append(spans, InlineCodeStyle.Render(code))
		return fmt.Sprintf("\x00%d\x00", len(spans)-1)
	})

	bold := lipgloss.NewStyle().Bold(true).Foreground(ColorText)
	line = boldPattern.ReplaceAllStringFunc(line, func(match string) string {
		return bold.Render(boldPattern.FindStringSubmatch(match)[1])
	})

	for i, span := range spans {
		line = strings.Replace(line, fmt.Sprintf("\x00%d\x00", i), span, 1)
	}
	return line
}

// renderMarkdownLine renders a single prose line: headings, bullets and
// numbered items get their markers restyled, everything is wrapped.
func renderMarkdownLine(line string, width int) string {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, "#") {
		heading := strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		if heading != "" {
			return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Render(wrapText(heading, width))
		}
	}

	marker := ""
	switch {
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
		marker = "•"
		trimmed = trimmed[2:]
	case numberedPattern.MatchString(trimmed):
		m := numberedPattern.FindStringSubmatch(trimmed)
		marker = m[1] + "."
		trimmed = trimmed[len(m[0]):]
	}
	if marker == "" {
		return ChatMessageStyle.Render(wrapText(renderInlineMarkdown(line), width))
	}

	indent := strings.Repeat(" ", ansi.StringWidth(marker)+3)
	wrapped := wrapText(renderInlineMarkdown(trimmed), max(width-len(indent), 1))
	lines := strings.Split(wrapped, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + lines[i]
	}
	bullet := lipgloss.NewStyle().Foreground(ColorSecondary).Render(marker)
	return "  " + bullet + " " + strings.Join(lines, "\n")
}

// renderMarkdown renders assistant content with syntax-highlighted code blocks
func renderMarkdown(content string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}

	var result strings.Builder
	inCodeBlock := false
	codeBlockLang := ""
	var codeBlockContent strings.Builder

	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if !inCodeBlock {
				inCodeBlock = true
				codeBlockLang = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
				codeBlockContent.Reset()
			} else {
				inCodeBlock = false
				result.WriteString(highlightCode(codeBlockContent.String(), codeBlockLang))
				result.WriteString("\n")
				codeBlockLang = ""
			}
			continue
		}

		if inCodeBlock {
			if codeBlockContent.Len() > 0 {
				codeBlockContent.WriteString("\n")
			}
			codeBlockContent.WriteString(line)
			continue
		}
		result.WriteString(renderMarkdownLine(line, width))
		result.WriteString("\n")
	}

	// Unterminated fence: show what we have
	if inCodeBlock {
		result.WriteString(highlightCode(codeBlockContent.String(), codeBlockLang))
	}

	return strings.TrimRight(result.String(), "\n")
}
