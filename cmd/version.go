package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is overridden with -ldflags "-X .../cmd.version=v1.2.3" in
// release builds.
var version = ""

// resolvedVersion falls back to the module version recorded by
// "go install", then to "(devel)".
func resolvedVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "(devel)"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the AdmitFlow version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "admitflow %s\n", resolvedVersion())
	},
}
