package utils_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gcallink/src-server/gcal"
	"gcallink/src-server/utils"
)

func TestNewConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("METRICS", "off")

	config := utils.NewConfig()
	if config.GetLogLevel() != slog.LevelDebug {
		t.Error("LOG_LEVEL", config.GetLogLevel())
	}
	if config.GetLocation().String() != "Europe/Berlin" {
		t.Error("TIMEZONE", config.GetLocation())
	}
	if config.GetMetricsEnabled() {
		t.Error("METRICS")
	}

	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("TIMEZONE", "")
	t.Setenv("METRICS", "")
	config = utils.NewConfig()
	if config.GetLogLevel() != slog.LevelInfo {
		t.Error("invalid LOG_LEVEL must fall back to info", config.GetLogLevel())
	}
	if config.GetLocation().String() != "UTC" {
		t.Error("TIMEZONE default", config.GetLocation())
	}
	if !config.GetMetricsEnabled() {
		t.Error("METRICS default")
	}
}

func TestApplyEventEnvAllDay(t *testing.T) {
	t.Setenv("TIMEZONE", "Europe/Berlin")
	t.Setenv("METRICS", "off")
	t.Setenv("EVENT_SUBJECT", " My first Event ")
	t.Setenv("EVENT_START", "2020-12-17")
	t.Setenv("EVENT_START_FORMAT", "2006-01-02")
	t.Setenv("EVENT_ALL_DAY", "true")
	t.Setenv("EVENT_DETAILS", `a\nb`)
	t.Setenv("EVENT_LOCATION", "Homeoffice")
	t.Setenv("EVENT_GUESTS", "sk@knaddlys.de, s.kien@online.de,")

	as := utils.NewAppState()
	link := as.NewEventLink()
	as.ApplyEventEnv(link)

	want := gcal.EventEditURL +
		"?text=My+first+Event" +
		"&dates=20201217/20201218" +
		"&ctz=Europe%2FBerlin" +
		"&details=a%0Ab" +
		"&location=Homeoffice" +
		"&add=sk@knaddlys.de,s.kien@online.de"
	if got := link.GetHREF(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestApplyEventEnvTimed(t *testing.T) {
	t.Setenv("TIMEZONE", "")
	t.Setenv("METRICS", "off")
	t.Setenv("EVENT_SUBJECT", "Standup")
	t.Setenv("EVENT_START", "1704877200") // 2024-01-10T09:00:00Z
	t.Setenv("EVENT_DURATION", "PT15M")
	t.Setenv("EVENT_TIMEZONE", "America/New_York")
	t.Setenv("EVENT_TRANSPARENCY", "available")
	t.Setenv("EVENT_RRULE", "FREQ=DAILY;COUNT=3")

	as := utils.NewAppState()
	defer as.GracefulShutdown()
	link := as.NewEventLink()
	as.ApplyEventEnv(link)

	want := gcal.EventEditURL +
		"?text=Standup" +
		"&dates=20240110T090000/20240110T091500" +
		"&ctz=America%2FNew_York" +
		"&crm=AVAILABLE" +
		"&recur=RRULE%3AFREQ%3DDAILY%3BCOUNT%3D3"
	if got := link.GetHREF(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestGracefulShutdownWritesMetricsFile(t *testing.T) {
	metricsFile := filepath.Join(t.TempDir(), "gcallink.prom")
	t.Setenv("TIMEZONE", "")
	t.Setenv("METRICS", "on")
	t.Setenv("METRICS_FILE", metricsFile)
	t.Setenv("EVENT_SUBJECT", "Sync")
	t.Setenv("EVENT_START", "2024-01-10 09:00")
	t.Setenv("EVENT_TIMEZONE", "nowhere")

	as := utils.NewAppState()
	link := as.NewEventLink()
	as.ApplyEventEnv(link)
	if link.GetHREF() == "" {
		t.Fatal("expected a link")
	}
	as.GracefulShutdown()
	// a second call is a no-op
	as.GracefulShutdown()

	content, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`gcallink_builds_total{result="ok"} 1`,
		`gcallink_rejected_fields_total{kind="invalid_timezone"} 1`,
	} {
		if !strings.Contains(string(content), want) {
			t.Errorf("%q missing from metrics file:\n%s", want, content)
		}
	}
}
