package cmd

import (
	"os"

	"github.com/Loop-Hive/ScheduleX/config"
	"github.com/spf13/cobra"
)

var cfg config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "schedulex",
	Short: "schedulex imports, checks and exports weekly class schedules",
	Long: `ScheduleX keeps registers of subjects with their weekly time slots and
attendance. Schedules move in and out as CSV (or ICS), can be checked for
conflicts, and can be served over a small json api`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("store") {
			loaded.StorePath, _ = cmd.Flags().GetString("store")
			// an explicit file means no database
			loaded.DBConn = ""
		}
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if err := loaded.SetupLogging(); err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("store", "", "json file to keep registers in (overrides STORE_PATH and DB_CONN)")
	rootCmd.PersistentFlags().String("log-level", "", "trace, debug, info, warn or error (overrides LOG_LEVEL)")
}
