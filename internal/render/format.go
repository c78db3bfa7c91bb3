package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Comma formats n with thousands separators.
func Comma(n int64) string {
	return humanize.Comma(n)
}

// Percent formats a percentage with one decimal.
func Percent(v float64) string {
	return humanize.FormatFloat("#,###.#", v) + "%"
}

// Hour formats an hour-of-day key as HH:00. Non-numeric keys are kept as is.
func Hour(key string) string {
	h, err := strconv.Atoi(key)
	if err != nil {
		return key
	}
	return fmt.Sprintf("%02d:00", h)
}

// Channel formats a channel name the way Discord shows it.
func Channel(name string) string {
	if name == "" {
		return ""
	}
	return "#" + name
}

// messageMarkdown renders Discord-flavoured chat markdown. Raw HTML in the
// source is dropped by goldmark's default renderer.
var messageMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
)

// Markdown converts a welcome/leave message to an HTML preview.
func Markdown(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := messageMarkdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

var funcs = template.FuncMap{
	"comma":   Comma,
	"count":   func(n int) string { return Comma(int64(n)) },
	"percent": Percent,
	"hour":    Hour,
	"channel": Channel,
	"initial": initial,
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}
