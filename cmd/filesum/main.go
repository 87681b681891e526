// Package main is the filesum CLI entrypoint.
package main

import (
	"os"

	"filesum/internal/app"
)

func main() {
	application := app.New()
	os.Exit(application.Run(os.Args[1:]))
}
