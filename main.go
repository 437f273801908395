package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gcallink/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Debug(err.Error())
	}
	setLogger(slog.LevelDebug)
}

func setLogger(level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

// Prints an "add to Google Calendar" link for the event described by the
// EVENT_* environment variables (or .env). Exits with 1 when no link can be
// built.
func main() {
	as := utils.NewAppState()
	defer as.GracefulShutdown()

	setLogger(as.Config.GetLogLevel())
	as.Logger = slog.Default()

	link := as.NewEventLink()
	as.ApplyEventEnv(link)

	href, err := link.Build()
	if err != nil {
		slog.Error("can't build link", "error", err)
		as.GracefulShutdown()
		os.Exit(1)
	}
	fmt.Println(href)
}
