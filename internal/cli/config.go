package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/scbrown/habits/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Show or modify configuration",
	Long: `View or change hb configuration stored in ~/.habits/config.toml.

With no arguments, shows all configuration settings.
With one argument, shows the value of that key.
With two arguments, sets the key to the given value.

Settings:
  backend         Storage backend: "sqlite" (default) or "redis"
  db_path         Path to the SQLite database
  redis_addr      Redis address, host:port
  redis_db        Redis database number
  storage_key     Key the habit state is stored under
  default_format  Default output format: "table", "json" or "yaml"
  log_level       Log level for stderr: debug, info, warn or error`,
	Example: `  hb config
  hb config db_path
  hb config db_path /custom/path/habits.db
  hb config backend redis
  hb config redis_addr localhost:6379
  hb config default_format yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		switch len(args) {
		case 0:
			return showConfig(cfg)
		case 1:
			return getConfig(cfg, args[0])
		default:
			return setConfig(cfg, args[0], args[1])
		}
	},
}

// configPath is the path to the config file, settable for testing.
var configPath = config.Path()

func init() {
	rootCmd.AddCommand(configCmd)
}

// loadConfig reads configPath. The default path also picks up (and migrates)
// a legacy config.json.
func loadConfig() (*config.Config, error) {
	if configPath == config.Path() {
		return config.Load()
	}
	return config.LoadFrom(configPath)
}

func showConfig(cfg *config.Config) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	tbl := NewTable(os.Stdout, "KEY", "VALUE")
	for _, key := range config.ValidKeys() {
		val, _ := cfg.Get(key)
		if val == "" {
			val = "(not set)"
		}
		tbl.Row(key, val)
	}
	return tbl.Flush()
}

func getConfig(cfg *config.Config, key string) error {
	val, err := cfg.Get(key)
	if err != nil {
		return err
	}
	if val == "" {
		return nil
	}
	fmt.Println(val)
	return nil
}

func setConfig(cfg *config.Config, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}
