package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Loop-Hive/ScheduleX/data"
	"github.com/Loop-Hive/ScheduleX/schedule"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file|url|->",
	Short: "Imports a schedule into a register",
	Long: `Parses a schedule CSV (or ICS) and merges it into a register, creating the
register when it does not exist. Subjects already in the register keep their
attendance and only get the new weekly slots. Errors and conflicts stop the
import unless --force is given`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registerName, _ := cmd.Flags().GetString("register")
		registerName = data.NormalizeName(registerName)
		force, _ := cmd.Flags().GetBool("force")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		logger := log.WithFields(log.Fields{
			"job": "import",
		})
		ctx := context.Background()
		result, err := readSchedule(ctx, logger, args[0])
		if err != nil {
			return err
		}
		if registerName == "" {
			if len(result.Registers) == 0 {
				return errors.New("the schedule does not name a register, pass --register")
			}
			registerName = data.NormalizeName(result.Registers[0])
		}
		logger = logger.WithField("register", registerName)

		store, closeStore, err := data.OpenStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		existing, err := store.GetRegister(ctx, registerName)
		if errors.Is(err, data.ErrRegisterNotFound) {
			existing = schedule.Register{Name: registerName}
		} else if err != nil {
			return err
		}

		merged, warnings := data.ApplyImport(existing, result.Subjects)
		out := cmd.OutOrStdout()
		printProblems(out, result, warnings)
		if (!result.Success || len(warnings) > 0) && !force {
			return fmt.Errorf("not importing with %d problems, use --force to import anyway", len(result.Errors)+len(warnings))
		}
		if dryRun {
			fmt.Fprintf(out, "would import %d subjects into %s (%d subjects after merge)\n",
				len(result.Subjects), registerName, len(merged.Subjects))
			return nil
		}

		if existing.ID == "" {
			if _, err := store.SaveRegister(ctx, schedule.Register{Name: registerName}); err != nil {
				return err
			}
		}
		saved, err := store.UpdateRegister(ctx, registerName, func(current *schedule.Register) error {
			*current, _ = data.ApplyImport(*current, result.Subjects)
			return nil
		})
		if err != nil {
			return err
		}
		logger.WithField("subjects", len(result.Subjects)).Info("Imported schedule")
		fmt.Fprintf(out, "imported %d subjects into %s (%d subjects)\n", len(result.Subjects), saved.Name, len(saved.Subjects))
		return nil
	},
}

func init() {
	importCmd.Flags().StringP("register", "r", "", "register to import into, defaults to the name in the file")
	importCmd.Flags().Bool("force", false, "import even with errors or conflicts")
	importCmd.Flags().Bool("dry-run", false, "report what would change without saving")
	rootCmd.AddCommand(importCmd)
}
