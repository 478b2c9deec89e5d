package cmd

import (
	"context"
	"fmt"

	"github.com/Loop-Hive/ScheduleX/schedule"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|url|->",
	Short: "Checks a schedule for format errors and conflicts",
	Long: `Parses a schedule CSV (or ICS) and reports rows that could not be read
along with duplicate subjects and overlapping slots. Exits non zero when
anything was found`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.WithFields(log.Fields{
			"job": "validate",
		})
		result, err := readSchedule(context.Background(), logger, args[0])
		if err != nil {
			return err
		}
		warnings := schedule.Validate(result.Subjects)

		out := cmd.OutOrStdout()
		slots := 0
		for _, subject := range result.Subjects {
			slots += subject.Schedule.SlotCount()
		}
		fmt.Fprintf(out, "%d subjects, %d slots\n", len(result.Subjects), slots)
		printProblems(out, result, warnings)

		if problems := len(result.Errors) + len(warnings); problems > 0 {
			return fmt.Errorf("found %d problems", problems)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
