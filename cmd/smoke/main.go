// Command smoke runs the pipeline and checks its artifact.
//
// Exit codes:
//
//	0  artifact present and ok is true
//	1  the pipeline failed
//	2  the validation artifact is missing or unreadable
//	3  the dataset failed validation
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/JaimeStill/pulse/internal/app"
	"github.com/JaimeStill/pulse/internal/validation"
)

const (
	exitPass = iota
	exitPipelineFailed
	exitArtifactMissing
	exitNotOK
)

func main() {
	os.Exit(run())
}

func run() int {
	a, err := app.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, "smoke: init failed:", err)
		return exitPipelineFailed
	}
	defer a.Close()

	ctx := a.Infra.Lifecycle.Context()

	if _, err := a.Domain.Pipeline.Run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "smoke: pipeline failed:", err)
		return exitPipelineFailed
	}

	result, err := a.Domain.Results.Read(ctx)
	if err != nil {
		if errors.Is(err, validation.ErrNotFound) {
			fmt.Fprintln(os.Stderr, "smoke: artifact missing:", a.Domain.Results.Paths().JSON)
		} else {
			fmt.Fprintln(os.Stderr, "smoke: artifact unreadable:", err)
		}
		return exitArtifactMissing
	}

	if !result.OK {
		fmt.Fprintln(os.Stderr, "smoke: validation failed")
		return exitNotOK
	}

	fmt.Println("smoke: pass")
	return exitPass
}
