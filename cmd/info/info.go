package info

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/dotdash/cmd/common"
	"github.com/gigurra/dotdash/pkg/wav"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Params struct {
	Files []string `pos:"true" help:"Wav files to inspect."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "info",
		Short:       "Show the header of wav files",
		Long:        "Decode the 44-byte PCM header of one or more wav files and print its fields.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				common.Fail("info", err)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout io.Writer) error {
	if len(params.Files) == 0 {
		return fmt.Errorf("no files specified")
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Rate", "Bits", "Channels", "Data", "Duration"})

	for _, path := range params.Files {
		h, data, err := wav.LoadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if _, err := wav.Payload(data); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		t.AppendRow(table.Row{
			path,
			fmt.Sprintf("%d Hz", h.SampleRate),
			h.BitsPerSample,
			h.Channels,
			fmt.Sprintf("%d bytes", h.DataSize),
			duration(h).Round(time.Millisecond),
		})
	}

	t.Render()
	return nil
}

func duration(h wav.Header) time.Duration {
	if h.ByteRate == 0 {
		return 0
	}
	return time.Duration(h.DataSize) * time.Second / time.Duration(h.ByteRate)
}
