package main

import (
	"os"

	"github.com/atelier-market/admin-console/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
