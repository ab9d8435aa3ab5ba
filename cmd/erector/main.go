// cmd/erector/main.go
//
// This is the entry point for the Erector TUI.
// When you run `erector <model.json>`, this is what executes.
//
// Flow:
// 1. Resolve the project directory and the model snapshot path
// 2. Load and validate the snapshot
// 3. Initialize the .erector folder and start the TUI

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sitecast/erector/internal/config"
	"github.com/sitecast/erector/internal/snapshot"
	"github.com/sitecast/erector/internal/tui"
)

func main() {
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: erector [--project dir] <model.json>")
		os.Exit(1)
	}
	modelPath := flag.Arg(0)

	project := *projectDir
	if project == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting working directory: %v\n", err)
			os.Exit(1)
		}
		project = cwd
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving project dir: %v\n", err)
		os.Exit(1)
	}

	input, err := snapshot.LoadModel(modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading model snapshot: %v\n", err)
		os.Exit(1)
	}

	if err := config.InitErectorDir(absoluteProject); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing .erector directory: %v\n", err)
		os.Exit(1)
	}

	app, err := tui.NewApp(absoluteProject, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error preparing application: %v\n", err)
		os.Exit(1)
	}

	// tea.NewProgram creates a new bubbletea application
	// tui.NewApp returns our main application model
	p := tea.NewProgram(
		app,
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)

	// Run blocks until the user quits
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
