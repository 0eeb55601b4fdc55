package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set at release build time via -ldflags. Development builds fall back to
// the module build info stamped by the Go toolchain.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildVersion resolves the version string and its VCS provenance in one
// pass over the embedded build info.
func buildVersion() (ver, rev, stamp string) {
	ver, rev, stamp = version, commit, date
	if info, ok := debug.ReadBuildInfo(); ok {
		if ver == "" && info.Main.Version != "" {
			ver = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && rev == "":
				rev = s.Value
			case s.Key == "vcs.time" && stamp == "":
				stamp = s.Value
			}
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if ver == "" {
		ver = "(devel)"
	}
	if rev == "" {
		rev = "unknown"
	}
	if stamp == "" {
		stamp = "unknown"
	}
	return ver, rev, stamp
}

// appVersion is the bare version string for cobra's --version flag.
func appVersion() string {
	ver, _, _ := buildVersion()
	return ver
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the ctdose version together with the VCS revision and build time it was produced from.`,
		Run: func(cmd *cobra.Command, _ []string) {
			ver, rev, stamp := buildVersion()
			fmt.Fprintf(cmd.OutOrStdout(), "ctdose %s (rev %s, built %s)\n", ver, rev, stamp)
		},
	}
}
