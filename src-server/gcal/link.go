// Package gcal builds links that open Google Calendar's "add event" form
// pre-filled with event data.
//
// # Example usage:
//
//	link := gcal.New(gcal.WithLogger(gcal.NewSlogLogger(nil)))
//	link.SetSubject("Sync")
//	link.SetStart(gcal.FreeText("2024-01-10 09:00"))
//	link.AddGuest("a@example.com")
//	href := link.GetHREF() // "" when subject or start is missing
//
// Field setters never fail: an invalid value is logged as a warning and
// dropped, leaving the previous value in place. Building never changes the
// stored fields, so calling GetHREF() twice yields the same link.
package gcal

import (
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/olebedev/when"
	"github.com/xyedo/rrule"
)

// EventEditURL is the endpoint every link points at.
const EventEditURL = "https://calendar.google.com/calendar/r/eventedit"

// EventLink accumulates event fields and renders them as an eventedit URL.
// It is not safe for concurrent use.
type EventLink struct {
	subject      string
	details      string
	start        *time.Time
	end          *time.Time
	location     string
	timezone     string
	allDay       bool
	guests       []string
	transparency Transparency
	recurrence   string

	logger    Logger
	recorder  Recorder
	loc       *time.Location
	when      *when.Parser
	now       func() time.Time
	normalize bool
}

type Option func(*EventLink)

func WithLogger(logger Logger) Option {
	return func(l *EventLink) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(l *EventLink) {
		if recorder != nil {
			l.recorder = recorder
		}
	}
}

// Location used for epoch values and text without an offset. Defaults to UTC.
func WithLocation(location *time.Location) Option {
	return func(l *EventLink) {
		if location != nil {
			l.loc = location
		}
	}
}

// Natural-language parser used by FreeText. Defaults to NewWhenParser().
func WithWhenParser(parser *when.Parser) Option {
	return func(l *EventLink) {
		if parser != nil {
			l.when = parser
		}
	}
}

// Reference time for relative expressions like "tomorrow".
func WithClock(now func() time.Time) Option {
	return func(l *EventLink) {
		if now != nil {
			l.now = now
		}
	}
}

// NFC-normalize subject, details, location and timezone before escaping, so
// decomposed characters ("u\u0308") render like composed ones ("ü"). Off by
// default: text is escaped byte for byte.
func WithNormalization() Option {
	return func(l *EventLink) {
		l.normalize = true
	}
}

// New returns an empty EventLink.
func New(opts ...Option) *EventLink {
	l := &EventLink{
		logger:   NopLogger{},
		recorder: nopRecorder{},
		loc:      time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.when == nil {
		l.when = NewWhenParser()
	}
	return l
}

// Reset clears every event field. Options passed to New are kept.
func (l *EventLink) Reset() {
	l.subject = ""
	l.details = ""
	l.start = nil
	l.end = nil
	l.location = ""
	l.timezone = ""
	l.allDay = false
	l.guests = nil
	l.transparency = TransparencyUnset
	l.recurrence = ""
}

// #region Getters

func (l *EventLink) GetSubject() string {
	return l.subject
}

func (l *EventLink) GetDetails() string {
	return l.details
}

// Get the start, false if not set
func (l *EventLink) GetStart() (time.Time, bool) {
	if l.start == nil {
		return time.Time{}, false
	}
	return *l.start, true
}

// Get the stored end, false if not set. Defaults applied at build time are
// not visible here.
func (l *EventLink) GetEnd() (time.Time, bool) {
	if l.end == nil {
		return time.Time{}, false
	}
	return *l.end, true
}

func (l *EventLink) GetLocation() string {
	return l.location
}

func (l *EventLink) GetTimezone() string {
	return l.timezone
}

func (l *EventLink) IsAllDay() bool {
	return l.allDay
}

func (l *EventLink) GetGuests() []string {
	return append([]string(nil), l.guests...)
}

func (l *EventLink) GetTransparency() Transparency {
	return l.transparency
}

func (l *EventLink) GetRecurrence() string {
	return l.recurrence
}

// #endregion

// #region Setters

func (l *EventLink) SetSubject(subject string) {
	l.subject = subject
}

func (l *EventLink) SetDetails(details string) {
	l.details = details
}

// SetStart keeps the previous start when d can't be resolved.
func (l *EventLink) SetStart(d DateTime) {
	if t, ok := l.resolveField("start", d); ok {
		l.start = &t
	}
}

// SetEnd keeps the previous end when d can't be resolved.
func (l *EventLink) SetEnd(d DateTime) {
	if t, ok := l.resolveField("end", d); ok {
		l.end = &t
	}
}

// SetDuration sets end = start + d. Start must be set first.
func (l *EventLink) SetDuration(d time.Duration) {
	if l.start == nil {
		l.reject(newFieldError(ErrStartNotSet, "SetDuration() called before SetStart()",
			map[string]any{"duration": d.String()}))
		return
	}
	if d < 0 {
		l.reject(newFieldError(ErrInvalidDuration, "negative duration",
			map[string]any{"duration": d.String()}))
		return
	}
	end := l.start.Add(d)
	l.end = &end
}

// SetDurationISO is SetDuration for ISO 8601 durations (PT1H30M, P1D, P2W).
// Day and larger units follow the calendar.
func (l *EventLink) SetDurationISO(spec string) {
	if l.start == nil {
		l.reject(newFieldError(ErrStartNotSet, "SetDurationISO() called before SetStart()",
			map[string]any{"duration": spec}))
		return
	}
	d, err := parseISODuration(spec)
	if err != nil {
		l.reject(newFieldError(ErrInvalidDuration, "invalid ISO 8601 duration",
			map[string]any{"duration": spec}))
		return
	}
	end := d.addTo(*l.start)
	l.end = &end
}

func (l *EventLink) SetLocation(location string) {
	l.location = location
}

// SetTimezone accepts IANA identifiers only ("Europe/Berlin", "UTC").
func (l *EventLink) SetTimezone(timezone string) {
	if !validTimezone(timezone) {
		l.reject(newFieldError(ErrInvalidTimezone, "invalid timezone",
			map[string]any{"timezone": timezone}))
		return
	}
	l.timezone = timezone
}

func (l *EventLink) SetAllDay(allDay bool) {
	l.allDay = allDay
}

// AddGuest appends a guest. No e-mail validation, duplicates are kept.
func (l *EventLink) AddGuest(guest string) {
	l.guests = append(l.guests, guest)
}

func (l *EventLink) SetTransparency(transparency Transparency) {
	if !transparency.valid() {
		l.reject(newFieldError(ErrInvalidTransparency, "invalid transparency",
			map[string]any{"transparency": int(transparency)}))
		return
	}
	l.transparency = transparency
}

// SetRecurrence takes an RFC 5545 RRULE, with or without the "RRULE:" prefix.
// An empty rule clears the recurrence.
func (l *EventLink) SetRecurrence(rule string) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		l.recurrence = ""
		return
	}
	body := strings.ToUpper(rule)
	body = strings.TrimPrefix(body, "RRULE:")
	if _, err := rrule.StrToRRule(body); err != nil {
		l.reject(newFieldError(ErrInvalidRecurrence, "invalid recurrence rule",
			map[string]any{"rrule": rule, "error": err.Error()}))
		return
	}
	l.recurrence = body
}

// #endregion

func (l *EventLink) resolveField(field string, d DateTime) (time.Time, bool) {
	t, err := l.resolve(d)
	if err != nil {
		l.reject(newFieldError(ErrUnparseableDateTime, "invalid date parameter",
			map[string]any{"field": field, "datetime": d.String(), "error": err.Error()}))
		return time.Time{}, false
	}
	return t, true
}

func (l *EventLink) reject(err *FieldError) {
	l.recorder.FieldRejected(err.kind)
	l.logger.Log(slog.LevelWarn, err.msg, err.args)
}

func validTimezone(id string) bool {
	if id == "" || id == "Local" {
		return false
	}
	_, err := time.LoadLocation(id)
	return err == nil
}
