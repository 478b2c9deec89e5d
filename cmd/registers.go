package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/Loop-Hive/ScheduleX/data"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var registersCmd = &cobra.Command{
	Use:   "registers",
	Short: "Lists the stored registers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.WithFields(log.Fields{
			"job": "registers",
		})
		ctx := context.Background()
		store, closeStore, err := data.OpenStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		registers, err := store.ListRegisters(ctx)
		if err != nil {
			return err
		}
		if len(registers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no registers")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSUBJECTS\tSLOTS\tATTENDANCE")
		for _, register := range registers {
			slots := 0
			for _, subject := range register.Subjects {
				slots += subject.Schedule.SlotCount()
			}
			summary := register.Summary()
			fmt.Fprintf(w, "%s\t%d\t%d\t%d/%d (%.1f%%)\n",
				register.Name, len(register.Subjects), slots, summary.Present, summary.Total, summary.Percentage())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(registersCmd)
}
