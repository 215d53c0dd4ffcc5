// Package buildinfo carries version data injected at link time:
//
//	go build -ldflags "-X github.com/void2610/online-type-game/internal/buildinfo.Version=v0.2.0" ./cmd/cli
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the version banner to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\nBuild date: %s\nBuild commit: %s\n", Version, Date, Commit)
}
