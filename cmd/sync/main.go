// Command sync rebuilds every dashboard document from the current validation
// result and prints the report. It exits 1 unless every document synced.
package main

import (
	"encoding/json"
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
		fmt.Fprintln(os.Stderr, "sync init failed:", err)
		return 1
	}
	defer a.Close()

	report := a.Domain.Synchronizer.SyncAll(a.Infra.Lifecycle.Context())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintln(os.Stderr, "encode report:", err)
		return 1
	}

	if !report.Succeeded() {
		return 1
	}
	return 0
}
