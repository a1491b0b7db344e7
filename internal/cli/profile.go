package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blogctl/internal/routes"
	"github.com/mesh-intelligence/blogctl/pkg/types"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "profile",
		Short:       "Show the signed-in user's profile",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: routes.Profile},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.session()
			if err != nil {
				return err
			}
			st, err := s.Load()
			if err != nil {
				return systemError(err)
			}
			return a.out.Profile(st.User)
		},
	}
	cmd.AddCommand(newProfileSetCmd())
	return cmd
}

// newProfileSetCmd edits the locally cached profile. Only the flags given
// are changed; an empty value clears the field.
func newProfileSetCmd() *cobra.Command {
	var given types.UserProfile
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update fields of the cached profile",
		Example: `  blogctl profile set --first-name Augusta
  blogctl profile set --last-name ""`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: routes.Profile},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.session()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			edited, err := s.EditUser(func(u *types.UserProfile) {
				if flags.Changed("first-name") {
					u.FirstName = given.FirstName
				}
				if flags.Changed("last-name") {
					u.LastName = given.LastName
				}
				if flags.Changed("email") {
					u.EmailAddress = given.EmailAddress
				}
				if flags.Changed("username") {
					u.Username = given.Username
				}
			})
			if err != nil {
				return systemError(err)
			}
			return a.out.Profile(edited)
		},
	}
	f := cmd.Flags()
	f.StringVar(&given.FirstName, "first-name", "", "first name")
	f.StringVar(&given.LastName, "last-name", "", "last name")
	f.StringVar(&given.EmailAddress, "email", "", "email address")
	f.StringVar(&given.Username, "username", "", "username")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "dashboard",
		Short:       "Show the welcome screen with a count of your blogs",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{routeAnnotation: routes.Dashboard},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			s, err := a.session()
			if err != nil {
				return err
			}
			st, err := s.Load()
			if err != nil {
				return systemError(err)
			}
			blogs, err := a.api.ListBlogs(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.Dashboard(st.User, len(visible(blogs)))
		},
	}
}
