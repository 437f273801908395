package utils

import (
	"os"
	"strconv"
	"strings"

	"gcallink/src-server/gcal"
)

// dateTimeFromEnv reads a start/end value: a number is taken as epoch
// seconds, text with a matching *_FORMAT variable is parsed strictly and
// anything else as free text.
func dateTimeFromEnv(key string) (gcal.DateTime, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return gcal.DateTime{}, false
	}
	if layout := os.Getenv(key + "_FORMAT"); layout != "" {
		return gcal.Formatted(value, layout), true
	}
	if epoch, err := strconv.ParseInt(value, 10, 64); err == nil {
		return gcal.Epoch(epoch), true
	}
	return gcal.FreeText(value), true
}

// ApplyEventEnv fills link from EVENT_* environment variables. Unset
// variables leave the link untouched.
func (as *AppState) ApplyEventEnv(link *gcal.EventLink) {
	if value, ok := os.LookupEnv("EVENT_SUBJECT"); ok {
		link.SetSubject(strings.TrimSpace(value))
	}
	if value, ok := os.LookupEnv("EVENT_DETAILS"); ok {
		link.SetDetails(strings.ReplaceAll(value, `\n`, "\n"))
	}
	if value, ok := os.LookupEnv("EVENT_ALL_DAY"); ok {
		allDay, err := strconv.ParseBool(value)
		if err != nil {
			as.Logger.Warn("invalid EVENT_ALL_DAY", "EVENT_ALL_DAY", value, "error", err)
		} else {
			link.SetAllDay(allDay)
		}
	}
	if start, ok := dateTimeFromEnv("EVENT_START"); ok {
		link.SetStart(start)
	}
	if end, ok := dateTimeFromEnv("EVENT_END"); ok {
		link.SetEnd(end)
	} else if value := os.Getenv("EVENT_DURATION"); value != "" {
		link.SetDurationISO(value)
	}
	if value, ok := os.LookupEnv("EVENT_LOCATION"); ok {
		link.SetLocation(strings.TrimSpace(value))
	}
	if value := os.Getenv("EVENT_TIMEZONE"); value != "" {
		link.SetTimezone(value)
	}
	if value := os.Getenv("EVENT_GUESTS"); value != "" {
		for _, guest := range strings.Split(value, ",") {
			guest := strings.TrimSpace(guest)
			if guest != "" {
				link.AddGuest(guest)
			}
		}
	}
	if value := os.Getenv("EVENT_TRANSPARENCY"); value != "" {
		transparency, err := gcal.ParseTransparency(value)
		if err != nil {
			as.Logger.Warn("invalid EVENT_TRANSPARENCY", "EVENT_TRANSPARENCY", value)
		} else {
			link.SetTransparency(transparency)
		}
	}
	if value := os.Getenv("EVENT_RRULE"); value != "" {
		link.SetRecurrence(value)
	}
}
