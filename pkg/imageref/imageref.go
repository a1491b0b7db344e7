// Package imageref classifies the image reference stored on a blog record
// and turns it into a media-host delivery URL.
//
// A reference is either a content identifier assigned by the media host at
// upload time, or a free-text label left behind by the retired upload
// pipeline. The two are told apart purely by surface form; nothing here
// checks that an identifier points at a real asset. Every input maps to a
// defined result: absence of a usable URL is an empty string.
package imageref

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind is the classification of an image reference.
type Kind int

const (
	// KindAbsent is an empty reference.
	KindAbsent Kind = iota
	// KindContentID is an opaque media-host identifier.
	KindContentID
	// KindLegacy is a free-text label from the old upload pipeline.
	KindLegacy
)

// String returns the display kind: "none", "modern" or "legacy".
func (k Kind) String() string {
	switch k {
	case KindContentID:
		return "modern"
	case KindLegacy:
		return "legacy"
	default:
		return "none"
	}
}

// Default rendition size and media-host coordinates.
const (
	DefaultWidth     = 600
	DefaultHeight    = 400
	DefaultHost      = "res.cloudinary.com"
	DefaultNamespace = "dif3z0kkk"
)

// Preview lengths used by Describe.
const (
	contentIDPreviewLen = 20
	legacyPreviewLen    = 30
	ellipsis            = "..."
)

// legacyMarkers are matched case-insensitively against the lowered reference.
var legacyMarkers = []string{" ", "(", ")", "image:", "uploaded:", "image-uploaded-"}

// legacyPrefixes are stripped from the front of a legacy label, longest first
// so "image-uploaded-" wins over "uploaded-".
var legacyPrefixes = []string{"image-uploaded-", "uploaded:", "uploaded-", "image:"}

// trailingParen matches a parenthetical at the end of a label, optionally
// followed by a file extension that is kept.
var trailingParen = regexp.MustCompile(`\s*\([^()]*\)\s*(\.[A-Za-z0-9]+)?\s*$`)

// Options selects the rendition size. Non-positive values use the defaults.
type Options struct {
	Width  int
	Height int
}

func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// Description is the badge shown next to a blog's image.
type Description struct {
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// Resolver builds delivery URLs against one media host account.
// The zero value is not useful; use New or Default.
type Resolver struct {
	Host      string
	Namespace string
}

// Default targets the production media account.
var Default = New(DefaultHost, DefaultNamespace)

// New returns a Resolver for the given delivery host and account namespace.
// Empty arguments fall back to the defaults.
func New(host, namespace string) Resolver {
	if host == "" {
		host = DefaultHost
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Resolver{
		Host:      strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://"), "/"),
		Namespace: namespace,
	}
}

// Classify reports which shape ref has.
func Classify(ref string) Kind {
	if ref == "" {
		return KindAbsent
	}
	lowered := strings.ToLower(ref)
	for _, m := range legacyMarkers {
		if strings.Contains(lowered, m) {
			return KindLegacy
		}
	}
	return KindContentID
}

// CleanLabel reduces a legacy label to the file name it names: known prefix
// markers and a trailing parenthetical are removed and only the last path
// segment is kept. A content identifier is returned unchanged and an empty
// reference yields "".
func CleanLabel(ref string) string {
	if Classify(ref) != KindLegacy {
		return ref
	}
	s := stripPrefixes(ref)
	s = trailingParen.ReplaceAllString(s, "$1")
	if i := strings.LastIndexAny(s, `/\`); i >= 0 {
		s = s[i+1:]
	}
	return scrubMarkers(stripPrefixes(s))
}

// scrubMarkers drops any prefix marker still embedded in s. Removal can join
// fragments into a new marker, so it repeats until nothing changes.
func scrubMarkers(s string) string {
	for {
		found := false
		for _, p := range legacyPrefixes {
			if i := indexFold(s, p); i >= 0 {
				s = s[:i] + s[i+len(p):]
				found = true
				break
			}
		}
		if !found {
			return strings.TrimSpace(s)
		}
	}
}

func stripPrefixes(s string) string {
	s = strings.TrimSpace(s)
	for {
		stripped := false
		for _, p := range legacyPrefixes {
			if len(s) >= len(p) && strings.EqualFold(s[:len(p)], p) {
				s = strings.TrimSpace(s[len(p):])
				stripped = true
				break
			}
		}
		if !stripped {
			return s
		}
	}
}

// ResolveURL returns the delivery URL for ref, or "" when there is nothing
// to fetch.
func (r Resolver) ResolveURL(ref string, opts Options) string {
	var asset string
	switch Classify(ref) {
	case KindContentID:
		asset = ref
	case KindLegacy:
		label := CleanLabel(ref)
		if label == "" {
			return ""
		}
		asset = encodeComponent(label)
	default:
		return ""
	}
	o := opts.normalized()
	return fmt.Sprintf("https://%s/%s/image/upload/w_%d,h_%d,c_fill/q_auto,f_auto/%s",
		r.Host, r.Namespace, o.Width, o.Height, asset)
}

// Describe returns the badge for ref.
func (r Resolver) Describe(ref string) Description {
	kind := Classify(ref)
	switch kind {
	case KindContentID:
		return Description{Label: "Cloudinary image", Kind: kind.String(), Detail: truncate(ref, contentIDPreviewLen)}
	case KindLegacy:
		return Description{Label: "Legacy image", Kind: kind.String(), Detail: truncate(CleanLabel(ref), legacyPreviewLen)}
	default:
		return Description{Label: "No image", Kind: kind.String()}
	}
}

// ResolveURL resolves ref against the Default resolver.
func ResolveURL(ref string, opts Options) string {
	return Default.ResolveURL(ref, opts)
}

// Describe describes ref using the Default resolver.
func Describe(ref string) Description {
	return Default.Describe(ref)
}

// indexFold is strings.Index with ASCII case folding. marker must be ASCII.
func indexFold(s, marker string) int {
	for i := 0; i+len(marker) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(marker)], marker) {
			return i
		}
	}
	return -1
}

// componentUnescaper undoes the QueryEscape encodings that
// encodeURIComponent leaves alone.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeComponent escapes s the way encodeURIComponent does.
func encodeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + ellipsis
}
