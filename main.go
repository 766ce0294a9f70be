package main

import (
	"fmt"
	"os"

	"github.com/medroute/pilot/config"
	"github.com/medroute/pilot/internal/app"
)

func main() {
	configPath := config.CONFIG_PATH
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	// create and initialize the app
	app, err := app.NewApp(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	// serves until SIGINT/SIGTERM
	if err := app.Run(); err != nil {
		app.Logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
