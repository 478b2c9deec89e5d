package timetable

import (
	"fmt"
	"regexp"

	"github.com/Loop-Hive/ScheduleX/schedule"
	"github.com/a-h/templ"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{3,8}$`)

func tagColor(subject schedule.Subject) string {
	if hexColor.MatchString(subject.TagColor) {
		return subject.TagColor
	}
	return schedule.DefaultTagColor
}

// only validated colours reach the style attribute
func slotAttrs(subject schedule.Subject) templ.Attributes {
	return templ.Attributes{"style": "border-color:" + tagColor(subject)}
}

type statusNote struct {
	text   string
	status string
}

func noteFor(subject schedule.Subject) statusNote {
	status := subject.Status()
	switch {
	case subject.Total == 0:
		return statusNote{status: "new"}
	case status.OnTrack && status.CanSkip >= 0:
		return statusNote{text: fmt.Sprintf("can skip %d", status.CanSkip), status: "on-track"}
	case status.OnTrack:
		return statusNote{status: "on-track"}
	case status.ToAttend < 0:
		return statusNote{text: "target out of reach", status: "behind"}
	default:
		return statusNote{text: fmt.Sprintf("attend %d more", status.ToAttend), status: "behind"}
	}
}
