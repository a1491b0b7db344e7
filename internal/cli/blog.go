package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blogctl/internal/logger"
	"github.com/mesh-intelligence/blogctl/internal/media"
	"github.com/mesh-intelligence/blogctl/internal/routes"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

func newBlogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blog",
		Short: "List, read, write and trash blogs",
	}
	cmd.AddCommand(newBlogListCmd())
	cmd.AddCommand(newBlogViewCmd())
	cmd.AddCommand(newBlogAddCmd())
	cmd.AddCommand(newBlogEditCmd())
	cmd.AddCommand(newBlogTrashCmd())
	return cmd
}

// visible drops trashed blogs.
func visible(blogs []types.BlogRecord) []types.BlogRecord {
	out := make([]types.BlogRecord, 0, len(blogs))
	for _, b := range blogs {
		if !b.Trashed() {
			out = append(out, b)
		}
	}
	return out
}

func newBlogListCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:         "list",
		Short:       "List blogs",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: routes.Blogs},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			blogs, err := a.api.ListBlogs(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				blogs = visible(blogs)
			}
			return a.out.BlogList(blogs)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include trashed blogs")
	return cmd
}

func newBlogViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "view <id>",
		Short:       "Show one blog",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{routeAnnotation: routes.ViewBlog},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			b, err := a.api.GetBlog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.out.BlogDetail(b)
		},
	}
}

// blogFields are the editable fields shared by add and edit.
type blogFields struct {
	title       string
	synopsis    string
	content     string
	contentFile string
	image       string
}

func (f *blogFields) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.title, "title", "", "blog title")
	fl.StringVar(&f.synopsis, "synopsis", "", "short summary")
	fl.StringVar(&f.content, "content", "", "blog content (Markdown)")
	fl.StringVar(&f.contentFile, "content-file", "", "read blog content from a file")
	fl.StringVar(&f.image, "image", "", "featured image file to upload")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
}

// loadContent fills content from contentFile when one is given.
func (f *blogFields) loadContent() error {
	if f.contentFile == "" {
		return nil
	}
	data, err := os.ReadFile(f.contentFile)
	if err != nil {
		return fmt.Errorf("read content file: %w", err)
	}
	f.content = string(data)
	return nil
}

// uploadImage prepares and uploads the image at path, records it in the
// local history, and returns the public id assigned by the media host.
func (a *app) uploadImage(ctx context.Context, path string) (string, error) {
	p, err := media.Prepare(path, a.cfg.Media.MaxWidth)
	if err != nil {
		return "", err
	}
	logger.InfoWithFields("uploading image", logger.Fields{
		"file": p.Name, "size_kb": p.SizeKB(), "width": p.Width, "height": p.Height, "resized": p.Resized,
	})

	res, err := a.uploader.Upload(ctx, p.Name, bytes.NewReader(p.Data))
	if err != nil {
		return "", err
	}

	s, err := a.session()
	if err != nil {
		return "", err
	}
	width, height := res.Width, res.Height
	if width == 0 {
		width, height = p.Width, p.Height
	}
	size := res.Bytes
	if size == 0 {
		size = int64(p.Size())
	}
	if _, err := s.Backend().RecordUpload(types.Upload{
		PublicID:  res.PublicID,
		FileName:  p.Name,
		SizeBytes: size,
		Width:     width,
		Height:    height,
	}); err != nil {
		logger.ErrorWithFields("record upload", logger.Fields{"public_id": res.PublicID, "error": err.Error()})
	}
	return res.PublicID, nil
}

func newBlogAddCmd() *cobra.Command {
	var f blogFields
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Upload a featured image and publish a new blog",
		Example: `  blogctl blog add --title "Hello" --synopsis "First post" \
    --content-file post.md --image cover.png`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: routes.AddBlog},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := f.loadContent(); err != nil {
				return err
			}
			in := types.BlogInput{Title: f.title, Synopsis: f.synopsis, Content: f.content}
			if err := in.Validate(); err != nil {
				return err
			}
			if f.image == "" {
				return errImageRequired
			}

			publicID, err := a.uploadImage(cmd.Context(), f.image)
			if err != nil {
				return err
			}
			in.ImageReference = publicID

			created, err := a.api.CreateBlog(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.out.JSONMode() {
				return a.out.JSON(created)
			}
			if created.ID != "" {
				return a.out.Success("Blog created successfully (id %s, image %s)", created.ID, publicID)
			}
			return a.out.Success("Blog created successfully (image %s)", publicID)
		},
	}
	f.register(cmd)
	return cmd
}

func newBlogEditCmd() *cobra.Command {
	var f blogFields
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a blog; fields not given keep their current value",
		Example: `  blogctl blog edit 42 --title "New title"
  blogctl blog edit 42 --image new-cover.jpg`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{routeAnnotation: routes.EditBlog},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			id := args[0]
			current, err := a.api.GetBlog(cmd.Context(), id)
			if err != nil {
				return err
			}

			in := current.Input()
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = f.title
			}
			if flags.Changed("synopsis") {
				in.Synopsis = f.synopsis
			}
			if flags.Changed("content") {
				in.Content = f.content
			}
			if f.contentFile != "" {
				if err := f.loadContent(); err != nil {
					return err
				}
				in.Content = f.content
			}
			if err := in.Validate(); err != nil {
				return err
			}
			if f.image != "" {
				publicID, err := a.uploadImage(cmd.Context(), f.image)
				if err != nil {
					return err
				}
				in.ImageReference = publicID
			}

			updated, err := a.api.UpdateBlog(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			if a.out.JSONMode() {
				return a.out.JSON(updated)
			}
			return a.out.Success("Blog updated successfully!")
		},
	}
	f.register(cmd)
	return cmd
}

func newBlogTrashCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "trash <id>",
		Short:       "Move a blog to the trash",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{routeAnnotation: routes.Trash},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			if err := a.api.TrashBlog(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.out.Success("Blog %s moved to trash", args[0])
		},
	}
}
