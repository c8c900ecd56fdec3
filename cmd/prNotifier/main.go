package main

import (
	"fmt"
	"os"

	_ "go.uber.org/automaxprocs"

	"pull_request_notifier/internal/application"
)

var appVersion = "v0.0.0"

func main() {
	if err := application.New(appVersion).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
