package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/openmingle/mingle-go/api"
	"github.com/openmingle/mingle-go/config"
	"github.com/openmingle/mingle-go/events"
	"github.com/openmingle/mingle-go/socket"
	"github.com/openmingle/mingle-go/store"
	"github.com/openmingle/mingle-go/toast"
)

var (
	apiURL    = flag.String("api", "", "override the API base URL")
	socketURL = flag.String("socket", "", "override the socket URL")
	token     = flag.String("token", "", "bearer token for this session")
	roomID    = flag.Int64("room", 0, "room to open on start")
)

// The TUI owns the terminal, so logs go to a file.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"mingle-client.log"}
	cfg.ErrorOutputPaths = []string{"mingle-client.log"}
	return cfg.Build()
}

func main() {
	flag.Parse()

	logger, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := config.Load()
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *socketURL != "" {
		cfg.SocketURL = *socketURL
	}

	stores := store.New()
	if *token != "" {
		stores.Session.SetToken(*token)
		stores.Session.SetAuthenticated(true)
	}

	notifier := toast.NewNotifier(logger)
	sock := socket.New(cfg.SocketURL, logger)
	rest := api.New(cfg.APIBaseURL, stores.Session, notifier, logger)

	p := tea.NewProgram(initialModel(sock, rest, stores, *roomID), tea.WithAltScreen())

	notifier.SetSink(func(t toast.Toast) { p.Send(toastMsg{t: t}) })
	unbind := events.Bind(sock, stores, logger, func(event string) {
		p.Send(refreshMsg{event: event})
	})
	defer unbind()

	query := map[string]any{}
	if *roomID > 0 {
		query["roomId"] = *roomID
	}
	if *token != "" {
		query["token"] = *token
	}
	if err := sock.Connect(socket.Options{Query: query, AutoReconnect: true}); err != nil {
		logger.Warn("initial connect failed", zap.Error(err))
		notifier.Warning("Not connected - check the server and try again")
	}
	defer sock.Disconnect()

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
