package render

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/blogctl/pkg/imageref"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

// Profile writes the cached user profile.
func (r *Renderer) Profile(u types.UserProfile) error {
	if r.opts.JSON {
		return r.JSON(u)
	}
	rows := [][2]string{
		{"Name", u.DisplayName()},
		{"Username", u.Username},
		{"Email", u.EmailAddress},
		{"Joined", u.DateJoined},
		{"Updated", u.LastUpdated},
	}
	var sb strings.Builder
	sb.WriteString(r.styles.title.Render("Profile") + "\n")
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		sb.WriteString(r.field(row[0], row[1]) + "\n")
	}
	_, err := fmt.Fprint(r.out, sb.String())
	return err
}

// Dashboard writes the welcome banner for an authenticated user.
func (r *Renderer) Dashboard(u types.UserProfile, blogCount int) error {
	if r.opts.JSON {
		return r.JSON(struct {
			User  types.UserProfile `json:"user"`
			Blogs int               `json:"blogs"`
		}{u, blogCount})
	}
	name := u.DisplayName()
	if name == "" {
		name = "there"
	}
	_, err := fmt.Fprintf(r.out, "%s\n%s\n",
		r.styles.title.Render("Welcome, "+name+"!"),
		r.field("Blogs", fmt.Sprint(blogCount)))
	return err
}

// ImageReport is the JSON shape of the image subcommands.
type ImageReport struct {
	Reference   string                `json:"reference"`
	Kind        string                `json:"kind"`
	URL         string                `json:"url,omitempty"`
	Description *imageref.Description `json:"description,omitempty"`
}

// Image writes the result of an image subcommand. Fields left empty in rep
// are omitted.
func (r *Renderer) Image(rep ImageReport) error {
	if r.opts.JSON {
		return r.JSON(rep)
	}
	var sb strings.Builder
	sb.WriteString(r.field("Kind", rep.Kind) + "\n")
	if rep.Description != nil {
		sb.WriteString(r.field("Label", r.Badge(*rep.Description)) + "\n")
		if rep.Description.Detail != "" {
			sb.WriteString(r.field("Detail", rep.Description.Detail) + "\n")
		}
	}
	if rep.URL != "" {
		sb.WriteString(r.field("URL", rep.URL) + "\n")
	}
	_, err := fmt.Fprint(r.out, sb.String())
	return err
}

// Uploads writes the local upload history.
func (r *Renderer) Uploads(list []types.Upload) error {
	if r.opts.JSON {
		if list == nil {
			list = []types.Upload{}
		}
		return r.JSON(list)
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(r.out, r.styles.muted.Render(NoUploads))
		return err
	}
	var sb strings.Builder
	for _, u := range list {
		fmt.Fprintf(&sb, "%s  %s  %s  %dx%d  %d KB\n",
			r.styles.muted.Render(u.CreatedAt.Format("2006-01-02 15:04")),
			r.styles.label.Render(u.PublicID),
			u.FileName, u.Width, u.Height, (u.SizeBytes+1023)/1024)
	}
	_, err := fmt.Fprint(r.out, sb.String())
	return err
}
