package cmd

import (
	"github.com/spf13/cobra"
)

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "used to run the schedulex service",
	Long: `The schedulex service is a json server for registers, imports,
attendance and timetables (this command is not ran directly)`,
}

func init() {
	rootCmd.AddCommand(appCmd)
}
