package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/petal-labs/chatjpt"
)

// Version information set at build time via ldflags.
// Example: go build -ldflags "-X github.com/petal-labs/chatjpt/cli/commands.Version=v1.0.0"
var (
	// Version is the semantic version of the CLI.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date when the binary was built.
	BuildDate = "unknown"
)

type versionInfo struct {
	Version   string `json:"version"`
	Library   string `json:"library"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including version, commit, build date, and Go runtime.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := versionInfo{
				Version:   Version,
				Library:   chatjpt.Version,
				Commit:    Commit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
				Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
			}
			return a.emit(info, func() {
				a.printf("chatjpt %s\n", info.Version)
				a.printf("  library:    %s\n", info.Library)
				a.printf("  commit:     %s\n", info.Commit)
				a.printf("  built:      %s\n", info.BuildDate)
				a.printf("  go version: %s\n", info.GoVersion)
				a.printf("  platform:   %s\n", info.Platform)
			})
		},
	}
}
