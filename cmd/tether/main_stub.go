//go:build !ebiten

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "The GUI build of tether requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/tether` or build with `-tags ebiten`.")
	fmt.Fprintln(os.Stderr, "Headless tools: ./cmd/replay, ./cmd/sweep, ./cmd/scoreboard.")
	os.Exit(2)
}
