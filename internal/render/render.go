// Package render turns blog records, profiles and image references into
// terminal output: styled text by default, plain text for pipes and tests,
// or indented JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/blogctl/pkg/imageref"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// PreviewLength is the number of characters of content shown in list views.
const PreviewLength = 120

// Messages shown for empty states.
const (
	NoBlogs   = "No blogs yet."
	NoImage   = "No image"
	NoUploads = "No uploads recorded."
)

const dateLayout = "Jan 2, 2006"

// Options select the output mode.
type Options struct {
	JSON     bool
	Plain    bool
	WordWrap int
}

// Renderer writes views to an io.Writer.
type Renderer struct {
	out      io.Writer
	opts     Options
	resolver imageref.Resolver
	sizes    types.ImageConfig
	styles   styles
	md       *glamour.TermRenderer
}

type styles struct {
	title   lipgloss.Style
	muted   lipgloss.Style
	label   lipgloss.Style
	modern  lipgloss.Style
	legacy  lipgloss.Style
	absent  lipgloss.Style
	success lipgloss.Style
}

var (
	colorTitle   = lipgloss.AdaptiveColor{Light: "#101F38", Dark: "#8BC34A"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6A737D", Dark: "#9DA5B4"}
	colorModern  = lipgloss.Color("#2196F3")
	colorLegacy  = lipgloss.Color("#FFC107")
	colorAbsent  = lipgloss.Color("#9E9E9E")
	colorSuccess = lipgloss.Color("#8BC34A")
)

func newStyles(plain bool) styles {
	if plain {
		s := lipgloss.NewStyle()
		return styles{s, s, s, s, s, s, s}
	}
	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF"))
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorTitle),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		label:   lipgloss.NewStyle().Bold(true),
		modern:  badge.Background(colorModern),
		legacy:  badge.Background(colorLegacy).Foreground(lipgloss.Color("#000000")),
		absent:  badge.Background(colorAbsent),
		success: lipgloss.NewStyle().Foreground(colorSuccess),
	}
}

// New creates a Renderer. resolver and sizes drive the image URLs shown in
// list and detail views.
func New(out io.Writer, opts Options, resolver imageref.Resolver, sizes types.ImageConfig) (*Renderer, error) {
	if opts.WordWrap <= 0 {
		opts.WordWrap = 80
	}
	style := glamour.WithAutoStyle()
	if opts.Plain {
		style = glamour.WithStandardStyle("notty")
	}
	md, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(opts.WordWrap))
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}
	return &Renderer{
		out:      out,
		opts:     opts,
		resolver: resolver,
		sizes:    sizes,
		styles:   newStyles(opts.Plain),
		md:       md,
	}, nil
}

// JSONMode reports whether views are written as JSON.
func (r *Renderer) JSONMode() bool {
	return r.opts.JSON
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success writes a confirmation line, or {"status":"ok","message":...} in
// JSON mode.
func (r *Renderer) Success(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if r.opts.JSON {
		return r.JSON(map[string]string{"status": "ok", "message": msg})
	}
	_, err := fmt.Fprintln(r.out, r.styles.success.Render(msg))
	return err
}

// Badge renders the short label of d, coloured by kind.
func (r *Renderer) Badge(d imageref.Description) string {
	text := "[" + d.Label + "]"
	switch d.Kind {
	case imageref.KindContentID.String():
		return r.styles.modern.Render(text)
	case imageref.KindLegacy.String():
		return r.styles.legacy.Render(text)
	default:
		return r.styles.absent.Render(text)
	}
}

func (r *Renderer) field(name, value string) string {
	return r.styles.label.Render(name+":") + " " + value
}

func formatDate(b types.BlogRecord) string {
	if b.CreatedAt.IsZero() {
		return "unknown date"
	}
	return b.CreatedAt.Format(dateLayout)
}

// Preview returns content shortened to PreviewLength characters followed by
// "..." when longer.
func Preview(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= PreviewLength {
		return string(runes)
	}
	return string(runes[:PreviewLength]) + "..."
}
