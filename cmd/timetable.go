package cmd

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Loop-Hive/ScheduleX/data"
	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/Loop-Hive/ScheduleX/timetable"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var timetableCmd = &cobra.Command{
	Use:   "timetable <register>",
	Short: "Renders the weekly timetable of a register",
	Long: `Renders a register as an html page, an xlsx workbook or an ics calendar of
weekly recurring events. Calendar events start in the week of --week`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		week, _ := cmd.Flags().GetString("week")
		tz, _ := cmd.Flags().GetString("tz")

		loc := time.Local
		if tz != "" {
			var err error
			if loc, err = time.LoadLocation(tz); err != nil {
				return fmt.Errorf("invalid --tz: %w", err)
			}
		}
		weekOf := time.Now().In(loc)
		if week != "" {
			var err error
			if weekOf, err = time.ParseInLocation(time.DateOnly, week, loc); err != nil {
				return fmt.Errorf("invalid --week, expected YYYY-MM-DD: %w", err)
			}
		}

		logger := log.WithFields(log.Fields{
			"job":      "timetable",
			"register": args[0],
			"format":   format,
		})
		ctx := context.Background()
		store, closeStore, err := data.OpenStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		register, err := store.GetRegister(ctx, args[0])
		if err != nil {
			return err
		}

		var content bytes.Buffer
		switch format {
		case "html":
			if err := timetable.HTML(register).Render(ctx, &content); err != nil {
				return err
			}
		case "xlsx":
			workbook, err := timetable.XLSX([]schedule.Register{register})
			if err != nil {
				return err
			}
			content.Write(workbook.Bytes())
		case "ics":
			calendar, err := timetable.ICS([]schedule.Register{register}, weekOf, loc)
			if err != nil {
				return err
			}
			content.WriteString(calendar)
		default:
			return fmt.Errorf("unknown format %q, expected html, xlsx or ics", format)
		}
		logger.Debugf("rendered %d bytes", content.Len())
		return writeOutput(cmd.OutOrStdout(), output, content.Bytes())
	},
}

func init() {
	timetableCmd.Flags().StringP("format", "f", "html", "html, xlsx or ics")
	timetableCmd.Flags().StringP("output", "o", "", "file to write, stdout when empty")
	timetableCmd.Flags().String("week", "", "any date in the first calendar week (YYYY-MM-DD), defaults to today")
	timetableCmd.Flags().String("tz", "", "time zone for calendar events, defaults to local")
	rootCmd.AddCommand(timetableCmd)
}
