package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/dotdash/cmd/info"
	"github.com/gigurra/dotdash/cmd/morse"
	"github.com/gigurra/dotdash/cmd/render"
	"github.com/gigurra/dotdash/cmd/samples"
	"github.com/gigurra/dotdash/cmd/timing"
	"github.com/spf13/cobra"
)

// Command group IDs
const (
	groupText  = "text"
	groupAudio = "audio"
)

// withGroup sets the GroupID on a command and returns it
func withGroup(cmd *cobra.Command, group string) *cobra.Command {
	cmd.GroupID = group
	return cmd
}

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "dotdash",
		Short:   "Morse code text and audio toolkit",
		Version: appVersion(),
		Groups: []*cobra.Group{
			{ID: groupText, Title: "Text & Timing:"},
			{ID: groupAudio, Title: "Audio:"},
		},
		SubCmds: []*cobra.Command{
			withGroup(morse.Cmd(), groupText),
			withGroup(timing.Cmd(), groupText),

			withGroup(render.Cmd(), groupAudio),
			withGroup(samples.Cmd(), groupAudio),
			withGroup(info.Cmd(), groupAudio),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuilInfo := debug.ReadBuildInfo()
	if !hasBuilInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
