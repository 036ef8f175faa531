package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/corvid-web/corvid"
	"github.com/corvid-web/corvid/http"
	"github.com/corvid-web/corvid/http/method"
	"github.com/corvid-web/corvid/internal/logging"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. It stops on SIGINT or SIGTERM, after every accepted
connection is served.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, logging.LevelFromString(cfg.Log.Level))
	app := corvid.New(addrFlag).
		Tune(cfg).
		Logger(logger)

	for _, value := range staticFlags {
		m, err := parseMount(value)
		if err != nil {
			return err
		}

		app.Mount(m.Dir, m.MountPoint)
	}

	for _, value := range redirectFlags {
		r, err := parseRedirect(value)
		if err != nil {
			return err
		}

		app.Redirect(r.From, r.To, true)
	}

	if echoFlag {
		app.Post("/echo", echo)
	}

	logger.Debug("routes", "GET", app.Table().Routes(method.GET), "POST", app.Table().Routes(method.POST))

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Serve()
	}()

	select {
	case err := <-serverErr:
		return err
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", "signal", sig.String())
		app.Stop()
		return <-serverErr
	}
}

// echo answers with the request body. Both form and JSON bodies are rendered as JSON.
func echo(request *http.Request) *http.Response {
	return http.NewResponse().JSON(request.Body.Doc)
}
