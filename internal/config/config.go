package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	CSVDir               string `mapstructure:"csv_dir" yaml:"csv_dir"`
	OutputDir            string `mapstructure:"output_dir" yaml:"output_dir"`
	InputFile            string `mapstructure:"input_file" yaml:"input_file"`
	ClassifiedOutputFile string `mapstructure:"classified_output_file" yaml:"classified_output_file"`
	SummaryOutputFile    string `mapstructure:"summary_output_file" yaml:"summary_output_file"`

	IndicatorMode    string `mapstructure:"indicator_mode" yaml:"indicator_mode"`
	WarnUnclassified bool   `mapstructure:"warn_unclassified" yaml:"warn_unclassified"`

	// Display/export tuning
	DecimalPlaces  int `mapstructure:"decimal_places" yaml:"decimal_places"`
	MaxDisplayRows int `mapstructure:"max_display_rows" yaml:"max_display_rows"`
	MinGroupSize   int `mapstructure:"min_group_size" yaml:"min_group_size"`

	// Tool server
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
}

// InputPath resolves the input CSV inside the data directory.
func (c *Global) InputPath() string {
	return filepath.Join(c.CSVDir, c.InputFile)
}

// ClassifiedPath resolves the classified CSV inside the output directory.
func (c *Global) ClassifiedPath() string {
	return filepath.Join(c.OutputDir, c.ClassifiedOutputFile)
}

// SummaryPath resolves the summary workbook inside the output directory.
func (c *Global) SummaryPath() string {
	return filepath.Join(c.OutputDir, c.SummaryOutputFile)
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ./muka.yaml in the working directory.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		path = "muka.yaml"
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("MUKA")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("csv_dir", "csv")
	v.SetDefault("output_dir", "output")
	v.SetDefault("input_file", "farm_data.csv")
	v.SetDefault("classified_output_file", "classified_farms.csv")
	v.SetDefault("summary_output_file", "analysis_summary.xlsx")
	v.SetDefault("indicator_mode", "6-indicators")
	v.SetDefault("warn_unclassified", false)
	v.SetDefault("decimal_places", 2)
	v.SetDefault("max_display_rows", 20)
	v.SetDefault("min_group_size", 1)
	v.SetDefault("listen_addr", ":8080")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("muka")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
