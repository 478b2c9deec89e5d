package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Loop-Hive/ScheduleX/data"
	"github.com/Loop-Hive/ScheduleX/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the api service",
	Long:  `Runs the api service until interrupted`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := log.WithFields(log.Fields{
			"job": "serve",
		})
		hub := server.NewLogHub(500)
		log.AddHook(hub)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, closeStore, err := data.OpenStore(ctx, cfg, logger)
		if err != nil {
			logger.Error("Fatal cannot open store ", err)
			return err
		}
		defer closeStore()

		return server.Serve(ctx, cfg, store, hub, logger)
	},
}

func init() {
	appCmd.AddCommand(serveCmd)
}
