package main

import (
	"github.com/berrythewa/cliprecall/internal/cli/cmd"
)

var (
	version   = "dev"
	buildTime = "unknown"
	commit    = "none"
)

func main() {
	cmd.SetVersionInfo(version, buildTime, commit)
	cmd.ExecuteDaemon()
}
