package metric

import (
	"errors"
	"log/slog"

	"gcallink/src-server/gcal"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	buildsName   = "gcallink_builds_total"
	rejectedName = "gcallink_rejected_fields_total"
)

// LinkRecorder counts link builds and rejected field values. It implements
// gcal.Recorder.
type LinkRecorder struct {
	registerer prometheus.Registerer
	builds     *prometheus.CounterVec
	rejected   *prometheus.CounterVec
}

// NewLinkRecorder registers the counters with reg, or with the default
// registerer when reg is nil. Counters already registered by an earlier
// recorder are reused.
func NewLinkRecorder(reg prometheus.Registerer) *LinkRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &LinkRecorder{registerer: reg}
	r.builds = register(reg, buildsName, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: buildsName,
		Help: "Number of link builds by result (ok, failed)",
	}, []string{"result"}))
	r.rejected = register(reg, rejectedName, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: rejectedName,
		Help: "Number of field values dropped by the link builder, by kind",
	}, []string{"kind"}))
	return r
}

func register(reg prometheus.Registerer, name string, counter *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				slog.Debug(name + " metric already registered, reusing it")
				return existing
			}
		}
		slog.Error("can't register "+name+" metric", "error", err)
		return counter
	}
	slog.Debug(name + " metric registered")
	return counter
}

func (r *LinkRecorder) BuildFinished(ok bool) {
	result := "failed"
	if ok {
		result = "ok"
	}
	r.builds.WithLabelValues(result).Inc()
}

func (r *LinkRecorder) FieldRejected(kind error) {
	r.rejected.WithLabelValues(kindLabel(kind)).Inc()
}

// Close unregisters both counters.
func (r *LinkRecorder) Close() {
	for name, counter := range map[string]*prometheus.CounterVec{
		buildsName:   r.builds,
		rejectedName: r.rejected,
	} {
		switch r.registerer.Unregister(counter) {
		case true:
			slog.Debug(name + " metric unregistered")
		case false:
			slog.Warn(name + " metric not registered")
		}
	}
}

var kindLabels = []struct {
	kind  error
	label string
}{
	{gcal.ErrUnparseableDateTime, "unparseable_datetime"},
	{gcal.ErrInvalidTimezone, "invalid_timezone"},
	{gcal.ErrInvalidTransparency, "invalid_transparency"},
	{gcal.ErrInvalidDuration, "invalid_duration"},
	{gcal.ErrInvalidRecurrence, "invalid_recurrence"},
	{gcal.ErrStartNotSet, "start_not_set"},
}

func kindLabel(kind error) string {
	for _, k := range kindLabels {
		if errors.Is(kind, k.kind) {
			return k.label
		}
	}
	return "other"
}
