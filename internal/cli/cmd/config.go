package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/tilegrid/internal/cli/styles"
	"github.com/bnema/tilegrid/internal/config"
)

const configDirPerm = 0o755

var (
	configForce     bool
	configSchemaDir string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Show the active configuration, write a default config file or generate its JSON schema.`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		renderer := styles.NewConfigRenderer(app.Theme)
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderConfigInfo(app.Manager.ConfigFile()))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active configuration as TOML",
	Long:  `Print the configuration in effect, after defaults, the config file and TILEGRID_* environment overrides.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		return writeConfigTOML(cmd.OutOrStdout(), app.Config)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		renderer := styles.NewConfigRenderer(app.Theme)
		path := app.Manager.ConfigFile()
		written, err := initConfigFile(path, configForce)
		switch {
		case errors.Is(err, os.ErrExist):
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderExists(path))
			return nil
		case err != nil:
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderError(err))
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderWritten("config", written))
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the JSON schema of the config file",
	Long: `Write config.schema.json next to the config file, or into --dir.

Editors with TOML schema support use it for completion and validation.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app := GetApp()
		if app == nil {
			return fmt.Errorf("app not initialized")
		}
		renderer := styles.NewConfigRenderer(app.Theme)
		dir := configSchemaDir
		if dir == "" {
			dir = filepath.Dir(app.Manager.ConfigFile())
		}
		path, err := config.GenerateSchemaFile(dir)
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderError(err))
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderer.RenderWritten("schema", path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSchemaCmd)
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing config file")
	configSchemaCmd.Flags().StringVar(&configSchemaDir, "dir", "", "output directory")
}

func writeConfigTOML(out io.Writer, cfg *config.Config) error {
	data, err := config.EncodeTOML(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// initConfigFile writes the default config to path. An existing file is
// kept unless force is set; os.ErrExist reports that case.
func initConfigFile(path string, force bool) (string, error) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s: %w", path, os.ErrExist)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := config.WriteConfigOrdered(config.DefaultConfig(), path); err != nil {
		return "", err
	}
	return path, nil
}
