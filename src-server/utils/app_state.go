package utils

import (
	"log/slog"

	"gcallink/src-server/gcal"
	"gcallink/src-server/metric"

	"github.com/olebedev/when"
	"github.com/prometheus/client_golang/prometheus"
)

type AppState struct {
	Config *Config
	Logger *slog.Logger
	When   *when.Parser

	// nil when METRICS=off
	Recorder *metric.LinkRecorder
}

func NewAppState() *AppState {
	as := &AppState{}

	// env
	as.Config = NewConfig()
	as.Logger = slog.Default()

	// date parser, shared by every link
	as.When = gcal.NewWhenParser()

	if as.Config.GetMetricsEnabled() {
		as.Recorder = metric.NewLinkRecorder(nil)
	}

	return as
}

// NewEventLink returns an empty link wired to the app's logger, parser,
// location and metrics.
func (as *AppState) NewEventLink() *gcal.EventLink {
	opts := []gcal.Option{
		gcal.WithLogger(gcal.NewSlogLogger(as.Logger)),
		gcal.WithWhenParser(as.When),
	}
	if as.Config != nil {
		opts = append(opts, gcal.WithLocation(as.Config.GetLocation()))
	}
	if as.Recorder != nil {
		opts = append(opts, gcal.WithRecorder(as.Recorder))
	}
	return gcal.New(opts...)
}

// GracefulShutdown writes the counters to METRICS_FILE, if set, then
// unregisters them.
func (as *AppState) GracefulShutdown() {
	if as.Recorder == nil {
		return
	}
	if file := as.Config.GetMetricsFile(); file != "" {
		if err := prometheus.WriteToTextfile(file, prometheus.DefaultGatherer); err != nil {
			as.Logger.Error("can't write metrics file", "METRICS_FILE", file, "error", err)
		} else {
			as.Logger.Debug("metrics written", "METRICS_FILE", file)
		}
	}
	as.Recorder.Close()
	as.Recorder = nil
}
