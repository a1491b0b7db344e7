package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/blogctl/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize blogctl configuration and storage",
		Long:  "Create the configuration directory with a default config.yaml and\ninitialize the local session store in the data directory.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	a := appFrom(cmd)

	// config.yaml is written by the root command on every run; opening the
	// session creates the data directory and schema.
	if _, err := a.session(); err != nil {
		return err
	}

	if a.out.JSONMode() {
		return a.out.JSON(map[string]string{
			"status":      "ok",
			"config_file": filepath.Join(a.configDir, paths.ConfigFileName),
			"data_dir":    a.dataDir,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "blogctl initialized successfully")
	fmt.Fprintf(out, "config: %s\n", filepath.Join(a.configDir, paths.ConfigFileName))
	fmt.Fprintf(out, "data:   %s\n", a.dataDir)
	return nil
}
