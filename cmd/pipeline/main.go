// Command pipeline ingests the dataset and validates it once. The exit code
// reflects process failures only; a dataset that fails validation still
// exits 0. Use cmd/smoke to gate on the result.
package main

import (
	"fmt"
	"os"

	"github.com/JaimeStill/pulse/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	a, err := app.Open()
	if err != nil {
		fmt.Fprintln(os.Stderr, "pipeline init failed:", err)
		return 1
	}
	defer a.Close()

	ctx := a.Infra.Lifecycle.Context()

	r, err := a.Domain.Pipeline.Run(ctx)
	if err != nil {
		a.Infra.Logger.Error("pipeline failed", "error", err)
		return 1
	}

	fmt.Printf("pipeline finished. run_id=%s status=%s\n", r.ID, r.Status)
	fmt.Printf("artifacts: %s, %s\n", r.Paths.JSON, r.Paths.HTML)
	return 0
}
