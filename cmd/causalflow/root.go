package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pauldambra/causal-flows/flow"
	"github.com/pauldambra/causal-flows/store"
)

var rootCmd = &cobra.Command{
	Use:           "causalflow",
	Short:         "Causal flow diagrams from plain text",
	Long:          "causalflow turns lines like \"coffee + alertness\" into a causal diagram, live.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "Config file (YAML)")
	rootCmd.PersistentFlags().String("db", defaultDBPath(), "Where the last description is stored")
	rootCmd.PersistentFlags().Bool("no-persist", false, "Keep the description in memory only")
	rootCmd.PersistentFlags().Duration("debounce", flow.DefaultDebounce, "Delay after the last edit before re-parsing")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Debug output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("no_persist", rootCmd.PersistentFlags().Lookup("no-persist"))
	_ = viper.BindPFlag("debounce", rootCmd.PersistentFlags().Lookup("debounce"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	viper.SetEnvPrefix("CAUSALFLOW")
	viper.AutomaticEnv()

	if cfg := viper.GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "[config] %v\n", err)
		}
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "causalflow.db"
	}
	return filepath.Join(home, ".causalflow", "causalflow.db")
}

// newLogger builds the zap logger for the debug/verbose flags. Without either
// flag only warnings and errors are logged.
func newLogger() (*zap.Logger, error) {
	if viper.GetBool("debug") {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	if !viper.GetBool("verbose") {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

// openStore opens the configured description store.
func openStore() (store.Store, error) {
	if viper.GetBool("no_persist") {
		return store.NewMemoryStore(""), nil
	}
	st, err := store.OpenSQLite(viper.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return st, nil
}
