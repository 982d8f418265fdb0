package cli

import (
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X".
//
//nolint:gochecknoglobals // set by the linker
var (
	Version = "dev"
	Commit  = "none"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Go      string `json:"go"`
	OS      string `json:"os"`
	Arch    string `json:"arch"`
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info := VersionInfo{
				Version: Version,
				Commit:  Commit,
				Go:      runtime.Version(),
				OS:      runtime.GOOS,
				Arch:    runtime.GOARCH,
			}
			return a.formatter.Emit(info, func(w io.Writer) error {
				out(w, "solconnect %s (%s) %s %s/%s\n", info.Version, info.Commit, info.Go, info.OS, info.Arch)
				return nil
			})
		},
	}
}
