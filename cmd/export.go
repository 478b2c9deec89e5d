package cmd

import (
	"context"

	"github.com/Loop-Hive/ScheduleX/data"
	"github.com/Loop-Hive/ScheduleX/schedule"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// loadRegisters fetches the named registers in order, or all of them
func loadRegisters(ctx context.Context, store data.Store, names []string) ([]schedule.Register, error) {
	if len(names) == 0 {
		return store.ListRegisters(ctx)
	}
	registers := make([]schedule.Register, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			register, err := store.GetRegister(ctx, name)
			if err != nil {
				return err
			}
			registers[i] = register
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return registers, nil
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports registers as a schedule CSV",
	Long: `Writes the weekly schedule of one register in the plain layout or of
several registers in the grouped layout. Every register is exported when none
are named`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, _ := cmd.Flags().GetStringSlice("register")
		output, _ := cmd.Flags().GetString("output")

		logger := log.WithFields(log.Fields{
			"job": "export",
		})
		ctx := context.Background()
		store, closeStore, err := data.OpenStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		registers, err := loadRegisters(ctx, store, names)
		if err != nil {
			return err
		}
		csv := schedule.ExportCSV(registers)
		if csv == "" {
			logger.Warn("Nothing to export, no register has any time slots")
			return nil
		}
		logger.WithField("registers", len(registers)).Debug("Exporting")
		return writeOutput(cmd.OutOrStdout(), output, []byte(csv))
	},
}

func init() {
	exportCmd.Flags().StringSliceP("register", "r", nil, "register to export, can be repeated")
	exportCmd.Flags().StringP("output", "o", "", "file to write, stdout when empty")
	rootCmd.AddCommand(exportCmd)
}
