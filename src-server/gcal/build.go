package gcal

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	defaultEventLength = 30 * time.Minute

	dateTimeLayout = "20060102T150405"
	dateLayout     = "20060102"
)

// snapshot is the validated, defaulted copy of the fields a build renders.
type snapshot struct {
	subject      string
	details      string
	start        time.Time
	end          time.Time
	location     string
	timezone     string
	allDay       bool
	guests       []string
	transparency Transparency
	recurrence   string
	normalize    bool
}

// GetHREF returns the eventedit URL, or "" when no subject or no start is set.
func (l *EventLink) GetHREF() string {
	href, _ := l.Build()
	return href
}

// Build is GetHREF that also reports why a link can't be built. The error
// wraps ErrMissingStart and/or ErrMissingSubject.
func (l *EventLink) Build() (string, error) {
	s, err := l.validate()
	l.recorder.BuildFinished(err == nil)
	if err != nil {
		return "", err
	}
	return encode(s), nil
}

// validate copies the stored fields and fills in implied defaults. Nothing is
// written back, so repeated builds render the same link.
func (l *EventLink) validate() (snapshot, error) {
	var errs []error
	s := snapshot{
		subject:      l.subject,
		details:      l.details,
		location:     l.location,
		timezone:     l.timezone,
		allDay:       l.allDay,
		guests:       append([]string(nil), l.guests...),
		transparency: l.transparency,
		recurrence:   l.recurrence,
		normalize:    l.normalize,
	}

	if l.start == nil {
		l.logger.Log(slog.LevelWarn, "no start date/time set", nil)
		errs = append(errs, ErrMissingStart)
	} else {
		s.start = *l.start
		switch {
		case l.end == nil:
			s.end = defaultEnd(s.start, s.allDay)
		case l.end.Before(s.start):
			l.logger.Log(slog.LevelWarn, "end is before start, using default end", map[string]any{
				"start": s.start.String(),
				"end":   l.end.String(),
			})
			s.end = defaultEnd(s.start, s.allDay)
		default:
			s.end = *l.end
		}
		if s.timezone == "" {
			if name := s.start.Location().String(); validTimezone(name) {
				s.timezone = name
			}
		}
	}

	if s.subject == "" {
		l.logger.Log(slog.LevelWarn, "no subject set", nil)
		errs = append(errs, ErrMissingSubject)
	}

	return s, errors.Join(errs...)
}

func defaultEnd(start time.Time, allDay bool) time.Time {
	if allDay {
		return start
	}
	return start.Add(defaultEventLength)
}

// encode renders the parameters in fixed order, skipping empty ones.
func encode(s snapshot) string {
	var sb strings.Builder
	sb.WriteString(EventEditURL)

	sep := "?"
	escape := func(value string) string {
		if value == "" {
			return ""
		}
		if s.normalize {
			value = norm.NFC.String(value)
		}
		return url.QueryEscape(value)
	}
	write := func(name, value string) {
		if value == "" {
			return
		}
		sb.WriteString(sep)
		sb.WriteString(name)
		sb.WriteString("=")
		sb.WriteString(value)
		sep = "&"
	}

	write("text", escape(s.subject))
	write("dates", formatDates(s))
	write("ctz", escape(s.timezone))
	write("details", escape(s.details))
	write("location", escape(s.location))
	write("crm", escape(s.transparency.String()))
	write("add", strings.Join(s.guests, ","))
	if s.recurrence != "" {
		write("recur", escape("RRULE:"+s.recurrence))
	}

	return sb.String()
}

// Wall-clock times, no UTC conversion. All-day end dates are exclusive, so
// the rendered end is one day past the validated end.
func formatDates(s snapshot) string {
	if s.start.IsZero() || s.end.IsZero() {
		return ""
	}
	if s.allDay {
		return s.start.Format(dateLayout) + "/" + s.end.AddDate(0, 0, 1).Format(dateLayout)
	}
	return s.start.Format(dateTimeLayout) + "/" + s.end.Format(dateTimeLayout)
}
