package main

import (
	"fmt"
	"os"

	"github.com/bethropolis/ignorewalk/internal/app"
	"github.com/bethropolis/ignorewalk/internal/config"
)

func main() {
	cmd := config.NewRootCommand(func(cfg *config.Config) error {
		// Create and run the application
		application, err := app.New(cfg)
		if err != nil {
			return err
		}
		// Close output file if one was opened
		defer application.Close()

		return application.Run()
	})

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
