// Package cli implements the blogctl command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blogctl/internal/logger"
	"github.com/mesh-intelligence/blogctl/internal/paths"
	"github.com/mesh-intelligence/blogctl/internal/routes"
)

// routeAnnotation names the client route a command stands for. Commands
// carrying it pass through the authentication guard.
const routeAnnotation = "route"

// NewRootCmd creates the top-level "blogctl" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "blogctl",
		Short: "A terminal client for the blog service",
		Long: "blogctl signs in to the blog service, lists, reads, writes and trashes\n" +
			"blogs, and uploads featured images to the media host.",
		Version: Version,
		// Errors are printed once by Run with a user-facing message.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bootstrap(cmd); err != nil {
				return err
			}
			cmd.SetContext(withApp(cmd.Context(), a))
			return a.guard(cmd, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/blogctl)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/blogctl)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVar(&a.flags.plain, "plain", false, "plain text output without colors")
	pf.IntVar(&a.flags.wrap, "wrap", 0, "wrap blog content at this many columns (default: 80)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default: warn)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newRegisterCmd())
	root.AddCommand(newLoginCmd())
	root.AddCommand(newLogoutCmd())
	root.AddCommand(newProfileCmd())
	root.AddCommand(newDashboardCmd())
	root.AddCommand(newBlogCmd())
	root.AddCommand(newImageCmd())

	return root
}

// bootstrap resolves directories, loads configuration and prepares the
// clients for this invocation.
func (a *app) bootstrap(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return systemError(err)
	}
	cfg := configFromViper(v)
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", configDir, err)
	}
	logger.Init(cfg.LogLevel)

	fromFile, err := configDataDir(v)
	if err != nil {
		return systemError(err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, fromFile)
	if err != nil {
		return systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	a.configDir = configDir
	a.dataDir = dataDir

	logger.DebugWithFields("configuration loaded", logger.Fields{
		"config_dir": configDir,
		"data_dir":   dataDir,
		"api_url":    cfg.APIURL,
	})
	return a.setup(cfg, cmd.OutOrStdout())
}

// guard refuses protected commands without a session.
func (a *app) guard(cmd *cobra.Command, args []string) error {
	pattern, ok := cmd.Annotations[routeAnnotation]
	if !ok {
		return nil
	}
	s, err := a.session()
	if err != nil {
		return err
	}
	st, err := s.Load()
	if err != nil {
		return systemError(err)
	}
	path := routes.Build(pattern, args...)
	if d := routes.Resolve(path, st.Authenticated()); d.Target == routes.Login && path != routes.Login {
		logger.DebugWithFields("route guarded", logger.Fields{"path": path, "target": d.Target})
		return errLoginRequired
	}
	return nil
}

// Run executes blogctl with args, writing results to stdout and messages
// to stderr. It returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	code, msg := exitSuccess, ""
	if err != nil {
		code, msg = describeError(err)
		if msg == msgSessionExpired {
			// A rejected token is stale; drop the whole session.
			if s, serr := a.session(); serr == nil {
				_ = s.Clear()
			}
		}
	}
	if cerr := a.close(); cerr != nil && err == nil {
		err = systemError(cerr)
		code, msg = describeError(err)
	}
	if err == nil {
		return exitSuccess
	}

	logger.DebugWithFields("command failed", logger.Fields{"error": err.Error(), "exit_code": code})
	fmt.Fprintln(stderr, msg)
	return code
}

// Execute runs the root command against the process arguments and exits
// with the appropriate code.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
