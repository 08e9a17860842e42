// Package main is the entry point for the notebookd server.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/infinita-io/notebookd/cmd/notebookd/app"
)

func main() {
	app.NewApp().Run()
}
