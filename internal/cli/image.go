package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blogctl/internal/render"
	"github.com/mesh-intelligence/blogctl/pkg/imageref"
)

func newImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Inspect image references and the local upload history",
		Long: "Image references are either content identifiers assigned by the media\n" +
			"host or legacy labels derived from an uploaded file name. These commands\n" +
			"show how blogctl classifies, labels and resolves a reference.",
	}
	cmd.AddCommand(newImageClassifyCmd())
	cmd.AddCommand(newImageURLCmd())
	cmd.AddCommand(newImageDescribeCmd())
	cmd.AddCommand(newImageUploadsCmd())
	return cmd
}

func newImageClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <ref>",
		Short: "Print the kind of an image reference: none, modern or legacy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ref := args[0]
			return a.out.Image(render.ImageReport{Reference: ref, Kind: imageref.Classify(ref).String()})
		},
	}
}

func newImageURLCmd() *cobra.Command {
	var width, height int
	var detail bool
	cmd := &cobra.Command{
		Use:   "url <ref>",
		Short: "Resolve an image reference to a delivery URL",
		Example: `  blogctl image url BlogApp/abc123
  blogctl image url "image-uploaded-My Photo (1).png" --detail`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ref := args[0]
			opts := imageref.Options{Width: a.cfg.Image.ListWidth, Height: a.cfg.Image.ListHeight}
			if detail {
				opts = imageref.Options{Width: a.cfg.Image.DetailWidth, Height: a.cfg.Image.DetailHeight}
			}
			if width > 0 {
				opts.Width = width
			}
			if height > 0 {
				opts.Height = height
			}
			return a.out.Image(render.ImageReport{
				Reference: ref,
				Kind:      imageref.Classify(ref).String(),
				URL:       a.resolver.ResolveURL(ref, opts),
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "target width in pixels (default: list width)")
	cmd.Flags().IntVar(&height, "height", 0, "target height in pixels (default: list height)")
	cmd.Flags().BoolVar(&detail, "detail", false, "use the detail view size")
	return cmd
}

func newImageDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <ref>",
		Short: "Print the human-readable label of an image reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			ref := args[0]
			d := a.resolver.Describe(ref)
			return a.out.Image(render.ImageReport{Reference: ref, Kind: d.Kind, Description: &d})
		},
	}
}

func newImageUploadsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "uploads",
		Short: "List images uploaded from this machine, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.session()
			if err != nil {
				return err
			}
			list, err := s.Backend().ListUploads(limit)
			if err != nil {
				return systemError(err)
			}
			return a.out.Uploads(list)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show (0 for all)")
	cmd.AddCommand(newUploadsExportCmd())
	cmd.AddCommand(newUploadsImportCmd())
	return cmd
}

func newUploadsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the upload history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.session()
			if err != nil {
				return err
			}
			n, err := s.Backend().ExportUploads(args[0])
			if err != nil {
				return systemError(err)
			}
			return a.out.Success("Exported %d uploads to %s", n, args[0])
		},
	}
}

func newUploadsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add uploads from a JSONL file to the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.session()
			if err != nil {
				return err
			}
			n, err := s.Backend().ImportUploads(args[0])
			if err != nil {
				return err
			}
			return a.out.Success("Imported %d uploads from %s", n, args[0])
		},
	}
}
