// Package cli содержит команды grocery на cobra.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/grocery/internal/app"
)

// globalOptions хранит флаги, общие для всех команд.
type globalOptions struct {
	configPath string
	csvPath    string
	logLevel   string

	cfg app.Config
}

// load собирает конфигурацию и применяет поверх неё флаги командной строки.
func (o *globalOptions) load(cmd *cobra.Command) error {
	cfg, err := app.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("csv") {
		cfg.Source = app.SourceCSV
		cfg.CSVPath = o.csvPath
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := app.SetupLogger(cfg.LogLevel); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:           "grocery",
		Short:         "Grocery order catalogue",
		Long:          "Look up grocery orders and their totals (7.5% sales tax) from a CSV file or PostgreSQL.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.csvPath, "csv", "", "Read orders from this CSV file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newFindCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newPublishCmd(opts))
	cmd.AddCommand(newMigrateCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
