package gcal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

type dateTimeKind int

const (
	kindInstant dateTimeKind = iota
	kindEpoch
	kindFormatted
	kindFreeText
)

// DateTime is one of the accepted start/end representations. Build it with
// At, Epoch, Formatted or FreeText.
type DateTime struct {
	kind   dateTimeKind
	t      time.Time
	epoch  int64
	text   string
	layout string
}

// A structured instant, used unchanged.
func At(t time.Time) DateTime {
	return DateTime{kind: kindInstant, t: t}
}

// Seconds since 1970-01-01T00:00:00Z.
func Epoch(seconds int64) DateTime {
	return DateTime{kind: kindEpoch, epoch: seconds}
}

// Text parsed strictly against a Go reference layout, e.g. "2006-01-02".
// The layout must carry a date; "15:04" alone is rejected.
func Formatted(text, layout string) DateTime {
	return DateTime{kind: kindFormatted, text: text, layout: layout}
}

// Free-form text: "2024-01-10 09:00", "January 10, 2024 9am", "tomorrow",
// "next friday". Natural-language text must be a date expression as a whole;
// relative days resolve to midnight.
func FreeText(text string) DateTime {
	return DateTime{kind: kindFreeText, text: text}
}

func (d DateTime) String() string {
	switch d.kind {
	case kindInstant:
		return d.t.String()
	case kindEpoch:
		return strconv.FormatInt(d.epoch, 10)
	case kindFormatted:
		return fmt.Sprintf("%s (layout %s)", d.text, d.layout)
	default:
		return d.text
	}
}

// absolute layouts tried before falling back to natural language
var freeTextLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
	"20060102T150405",
	"20060102",
	"2006/01/02 15:04",
	"2006/01/02",
	"January 2, 2006 15:04",
	"January 2, 2006 3pm",
	"January 2, 2006 3:04pm",
	"January 2, 2006",
	"2 January 2006",
}

// NewWhenParser returns a natural-language date parser with the English and
// common rule sets loaded.
func NewWhenParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// resolve converts any DateTime into an instant. Epoch values and text
// without an explicit offset are placed in l.loc. The zero time is never
// returned.
func (l *EventLink) resolve(d DateTime) (time.Time, error) {
	t, err := l.resolveKind(d)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("zero time: %w", ErrUnparseableDateTime)
	}
	return t, nil
}

func (l *EventLink) resolveKind(d DateTime) (time.Time, error) {
	switch d.kind {
	case kindInstant:
		return d.t, nil
	case kindEpoch:
		return time.Unix(d.epoch, 0).In(l.loc), nil
	case kindFormatted:
		if d.layout == "" {
			return time.Time{}, fmt.Errorf("empty layout: %w", ErrUnparseableDateTime)
		}
		result, err := time.ParseInLocation(d.layout, strings.TrimSpace(d.text), l.loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", err.Error(), ErrUnparseableDateTime)
		}
		if result.Year() == 0 {
			return time.Time{}, fmt.Errorf("layout %q has no date: %w", d.layout, ErrUnparseableDateTime)
		}
		return result, nil
	case kindFreeText:
		return l.parseFreeText(d.text)
	}
	return time.Time{}, fmt.Errorf("unknown input kind %d: %w", d.kind, ErrUnparseableDateTime)
}

func (l *EventLink) parseFreeText(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, fmt.Errorf("blank text: %w", ErrUnparseableDateTime)
	}
	for _, layout := range freeTextLayouts {
		if result, err := time.ParseInLocation(layout, text, l.loc); err == nil {
			return result, nil
		}
	}
	now := l.now().In(l.loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, l.loc)
	result, err := l.when.Parse(text, midnight)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", err.Error(), ErrUnparseableDateTime)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("no date found in %q: %w", text, ErrUnparseableDateTime)
	}
	// partial matches would turn "2024-13-45" into 13:45 today
	if result.Index != 0 || len(strings.TrimSpace(result.Text)) != len(text) {
		return time.Time{}, fmt.Errorf("only %q of %q is a date: %w", result.Text, text, ErrUnparseableDateTime)
	}
	return result.Time, nil
}

var isoDurationPattern = regexp.MustCompile(
	`^P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`,
)

// isoDuration is an ISO 8601 duration split into calendar and clock parts.
type isoDuration struct {
	years, months, days int
	clock               time.Duration
}

func (d isoDuration) addTo(t time.Time) time.Time {
	return t.AddDate(d.years, d.months, d.days).Add(d.clock)
}

// Parse durations like PT30M, P1D, P1DT2H30M or P2W.
func parseISODuration(spec string) (isoDuration, error) {
	spec = strings.ToUpper(strings.TrimSpace(spec))
	match := isoDurationPattern.FindStringSubmatch(spec)
	if match == nil || spec == "P" || strings.HasSuffix(spec, "T") {
		return isoDuration{}, fmt.Errorf("%q: %w", spec, ErrInvalidDuration)
	}
	n := make([]int, len(match))
	for i := 1; i < len(match); i++ {
		if match[i] == "" {
			continue
		}
		v, err := strconv.Atoi(match[i])
		if err != nil {
			return isoDuration{}, fmt.Errorf("%q: %w", spec, ErrInvalidDuration)
		}
		n[i] = v
	}
	return isoDuration{
		years:  n[1],
		months: n[2],
		days:   n[3]*7 + n[4],
		clock: time.Duration(n[5])*time.Hour +
			time.Duration(n[6])*time.Minute +
			time.Duration(n[7])*time.Second,
	}, nil
}
