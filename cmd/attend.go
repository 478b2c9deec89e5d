package cmd

import (
	"context"
	"fmt"

	"github.com/Loop-Hive/ScheduleX/data"
	"github.com/Loop-Hive/ScheduleX/schedule"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func describeStatus(subject schedule.Subject) string {
	status := subject.Status()
	line := fmt.Sprintf("%s: %d/%d (%.1f%%, target %d%%)",
		subject.Title, subject.Present, subject.Total, status.Percentage, subject.TargetPercentage)
	switch {
	case status.ToAttend < 0:
		return line + ", target can no longer be reached"
	case status.ToAttend > 0:
		return line + fmt.Sprintf(", attend the next %d", status.ToAttend)
	case status.CanSkip < 0:
		return line + ", on track"
	default:
		return line + fmt.Sprintf(", on track, can skip %d", status.CanSkip)
	}
}

var attendCmd = &cobra.Command{
	Use:   "attend <register> <subject>",
	Short: "Records attendance for a subject",
	Long: `Marks a class of the subject as attended, or as missed with --absent. The
subject is matched by title or id. --undo takes back the last mark of the same
kind`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		absent, _ := cmd.Flags().GetBool("absent")
		undo, _ := cmd.Flags().GetBool("undo")

		logger := log.WithFields(log.Fields{
			"job":      "attend",
			"register": args[0],
			"subject":  args[1],
		})
		ctx := context.Background()
		store, closeStore, err := data.OpenStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		var marked schedule.Subject
		_, err = store.UpdateRegister(ctx, args[0], func(register *schedule.Register) error {
			subject, err := findSubject(register, args[1])
			if err != nil {
				return err
			}
			if undo {
				subject.Undo(!absent)
			} else {
				subject.Mark(!absent)
			}
			marked = *subject
			return nil
		})
		if err != nil {
			return err
		}
		logger.WithFields(log.Fields{"present": !absent, "undo": undo}).Debug("Recorded attendance")
		fmt.Fprintln(cmd.OutOrStdout(), describeStatus(marked))
		return nil
	},
}

func init() {
	attendCmd.Flags().Bool("absent", false, "record a missed class")
	attendCmd.Flags().Bool("undo", false, "take back a mark instead of adding one")
	rootCmd.AddCommand(attendCmd)
}
