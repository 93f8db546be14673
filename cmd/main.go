package main

import (
	"os"

	"evdsrates/internal/app"
)

// @title EVDS Rates API
// @version 1.0
// @description Fetches TCMB EVDS exchange rates, fills missing days and stores them.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
