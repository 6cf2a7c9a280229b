package main

import (
	"os"

	"greencommute/internal/app"
)

func main() {
	application := app.New()
	os.Exit(application.Run())
}
