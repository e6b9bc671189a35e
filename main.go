package main

import (
	"github.com/joho/godotenv"

	"garmin-fitness/internal/cli"
)

func main() {
	// A .env file can carry GARMIN_CLIENT_ID and friends during
	// development. Missing is fine; the config file is the normal path.
	_ = godotenv.Load()

	cli.Execute()
}
