package metric_test

import (
	"errors"
	"testing"

	"gcallink/src-server/gcal"
	"gcallink/src-server/metric"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLinkRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder := metric.NewLinkRecorder(reg)

	link := gcal.New(gcal.WithRecorder(recorder))
	link.SetTimezone("Mars/Olympus_Mons")
	link.SetStart(gcal.FreeText("gibberish xyz"))
	link.SetDuration(0)
	if link.GetHREF() != "" {
		t.Error("expected empty link")
	}
	link.SetSubject("Sync")
	link.SetStart(gcal.Epoch(0))
	if link.GetHREF() == "" {
		t.Error("expected a link")
	}

	if got, err := testutil.GatherAndCount(reg); err != nil || got != 5 {
		t.Error("unexpected series count", got, err)
	}

	// second recorder reuses the registered counters
	again := metric.NewLinkRecorder(reg)
	again.FieldRejected(errors.New("something else"))
	if got, err := testutil.GatherAndCount(reg, "gcallink_rejected_fields_total"); err != nil || got != 4 {
		t.Error("counters not reused", got, err)
	}

	recorder.Close()
	if got, err := testutil.GatherAndCount(reg); err != nil || got != 0 {
		t.Error("counters not unregistered", got, err)
	}
}
