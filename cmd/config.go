package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cfgpkg "github.com/mischadiehm/muka/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		fmt.Print(string(b))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one configuration key and save the config file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := applyKey(cfg, key, value); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Set %s = %s\n", key, value)
		return nil
	},
}

func applyKey(c *cfgpkg.Global, key, value string) error {
	switch key {
	case "csv_dir":
		c.CSVDir = value
	case "output_dir":
		c.OutputDir = value
	case "input_file":
		c.InputFile = value
	case "classified_output_file":
		c.ClassifiedOutputFile = value
	case "summary_output_file":
		c.SummaryOutputFile = value
	case "indicator_mode":
		c.IndicatorMode = value
	case "listen_addr":
		c.ListenAddr = value
	case "warn_unclassified":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.WarnUnclassified = b
	case "decimal_places", "max_display_rows", "min_group_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "decimal_places":
			c.DecimalPlaces = n
		case "max_display_rows":
			c.MaxDisplayRows = n
		case "min_group_size":
			c.MinGroupSize = n
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
