package render

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/blogctl/pkg/imageref"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// blogView is the JSON shape of a blog in list and detail output.
type blogView struct {
	types.BlogRecord
	ImageURL string               `json:"imageUrl"`
	Image    imageref.Description `json:"image"`
}

func (r *Renderer) view(b types.BlogRecord, opts imageref.Options) blogView {
	return blogView{
		BlogRecord: b,
		ImageURL:   r.resolver.ResolveURL(b.ImageReference, opts),
		Image:      r.resolver.Describe(b.ImageReference),
	}
}

func (r *Renderer) listSize() imageref.Options {
	return imageref.Options{Width: r.sizes.ListWidth, Height: r.sizes.ListHeight}
}

func (r *Renderer) detailSize() imageref.Options {
	return imageref.Options{Width: r.sizes.DetailWidth, Height: r.sizes.DetailHeight}
}

// BlogList writes the list view of records.
func (r *Renderer) BlogList(records []types.BlogRecord) error {
	if r.opts.JSON {
		views := make([]blogView, 0, len(records))
		for _, b := range records {
			views = append(views, r.view(b, r.listSize()))
		}
		return r.JSON(views)
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(r.out, r.styles.muted.Render(NoBlogs))
		return err
	}

	var sb strings.Builder
	for i, b := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		v := r.view(b, r.listSize())
		fmt.Fprintf(&sb, "%s %s\n", r.styles.title.Render(b.Title), r.Badge(v.Image))
		fmt.Fprintf(&sb, "  %s\n", r.styles.muted.Render(b.ID+" · "+formatDate(b)))
		if b.Synopsis != "" {
			fmt.Fprintf(&sb, "  %s\n", b.Synopsis)
		}
		if preview := Preview(b.Content); preview != "" {
			fmt.Fprintf(&sb, "  %s\n", preview)
		}
		if v.ImageURL != "" {
			fmt.Fprintf(&sb, "  %s\n", r.field("Image", v.ImageURL))
		}
	}
	_, err := fmt.Fprint(r.out, sb.String())
	return err
}

// BlogDetail writes the full view of one record with its content rendered
// as Markdown.
func (r *Renderer) BlogDetail(b types.BlogRecord) error {
	v := r.view(b, r.detailSize())
	if r.opts.JSON {
		return r.JSON(v)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", r.styles.title.Render(b.Title), r.Badge(v.Image))
	fmt.Fprintf(&sb, "%s\n", r.styles.muted.Render(formatDate(b)))
	if b.Synopsis != "" {
		fmt.Fprintf(&sb, "\n%s\n", b.Synopsis)
	}
	if v.ImageURL != "" {
		fmt.Fprintf(&sb, "\n%s\n", r.field("Image", v.ImageURL))
		if v.Image.Detail != "" {
			fmt.Fprintf(&sb, "%s\n", r.field("Source", v.Image.Detail))
		}
	} else {
		fmt.Fprintf(&sb, "\n%s\n", r.styles.muted.Render(NoImage))
	}

	content, err := r.md.Render(b.Content)
	if err != nil {
		return fmt.Errorf("rendering content: %w", err)
	}
	sb.WriteString(content)

	_, err = fmt.Fprint(r.out, sb.String())
	return err
}
