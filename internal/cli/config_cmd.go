package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/statgrid/internal/config"
	"github.com/rileyhilliard/statgrid/internal/errors"
	"github.com/rileyhilliard/statgrid/internal/ui"
	"github.com/rileyhilliard/statgrid/internal/util"
)

var configGlobal bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration file",
	Long: `statgrid reads .statgrid.yaml from the current directory or its parents,
then ~/.config/statgrid/config.yaml. STATGRID_* environment variables and
a .env file next to the config override file values.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		return configShow(cmd.OutOrStdout(), cfg, path)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the configuration file",
	Example: `  statgrid config set endpoint http://localhost:6100
  statgrid config set telemetry.listen 127.0.0.1:9464
  statgrid config set --global log.debug true`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			keys := config.SettableKeys()
			slices.Sort(keys)
			return keys, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configTarget(configFlag, configGlobal)
		if err != nil {
			return err
		}
		return configSet(cmd.OutOrStdout(), path, args[0], args[1])
	},
}

func init() {
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write ~/.config/statgrid/config.yaml")
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// configTarget picks the file config set writes: the file in use, or the
// global file when --global is set or nothing is found. Without a home
// directory it falls back to .statgrid.yaml in the current directory.
func configTarget(explicit string, global bool) (string, error) {
	if !global {
		path, err := config.Find(explicit)
		if err != nil {
			return "", err
		}
		if path != "" {
			return path, nil
		}
	}
	if path := config.GlobalConfigPath(); path != "" {
		return path, nil
	}
	return config.ConfigFileName, nil
}

func configSet(out io.Writer, path, key, value string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to create config directory",
				"Check permissions on "+dir)
		}
	}
	if err := config.SetValue(path, key, value); err != nil {
		keys := config.SettableKeys()
		slices.Sort(keys)
		hint := "Settable keys: " + strings.Join(keys, ", ")
		if dym := util.DidYouMean(key, keys); dym != "" {
			hint = dym
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Couldn't set %s in %s", key, path), hint)
	}
	_, err := fmt.Fprintf(out, "%s %s = %s (%s)\n", ui.SymbolSuccess, key, value, path)
	return err
}

func configShow(out io.Writer, cfg *config.Config, path string) error {
	ui.ConfigureOutput(out)
	title := "defaults (no config file found)"
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		title = path
	}

	endpoint := cfg.Endpoint
	if cfg.Demo {
		endpoint = "demo"
	}
	listen := cfg.Telemetry.Listen
	if listen == "" {
		listen = "disabled"
	}
	items := []ui.KeyValue{
		{Key: "endpoint", Value: endpoint},
		{Key: "timeout", Value: cfg.Timeout.String()},
		{Key: "scrape_period", Value: cfg.ScrapePeriod.String()},
		{Key: "log.file", Value: cfg.Log.File},
		{Key: "log.debug", Value: strconv.FormatBool(cfg.Log.Debug)},
		{Key: "telemetry.listen", Value: listen},
		{Key: "dashboard.card_height", Value: strconv.Itoa(cfg.Dashboard.CardHeight)},
		{Key: "dashboard.debounce", Value: cfg.Dashboard.Debounce.String()},
	}
	_, err := fmt.Fprint(out, ui.RenderKeyValues(title, items))
	return err
}
