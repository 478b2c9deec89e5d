package cmd

import (
	"errors"

	"github.com/Loop-Hive/ScheduleX/data"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Runs the up migrations",
	Long:  `Runs the up migrations and errors if they cannot be applied`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.WithFields(log.Fields{
			"job": "up",
		})
		if cfg.DBConn == "" {
			return errors.New("DB_CONN is not set, there is nothing to migrate")
		}
		if err := data.MigrateUp(cfg.DBConn, logger); err != nil {
			logger.Error("Could not run up migrations ", err)
			return err
		}
		return nil
	},
}

func init() {
	appCmd.AddCommand(upCmd)
}
