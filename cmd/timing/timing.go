package timing

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/dotdash/cmd/common"
	"github.com/gigurra/dotdash/cmd/common/config"
	"github.com/gigurra/dotdash/pkg/assembler"
	"github.com/gigurra/dotdash/pkg/charset"
	"github.com/gigurra/dotdash/pkg/timing"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var terminalWidth = func() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 120
	}
	return width
}

type Params struct {
	Text             []string `pos:"true" optional:"true" help:"Also show how long this text takes to send."`
	WPM              float64  `short:"w" optional:"true" help:"Character speed in words per minute (default from config)."`
	UnitMs           float64  `short:"u" optional:"true" help:"Dit length in milliseconds. Overrides --wpm."`
	Farnsworth       float64  `short:"f" optional:"true" help:"Overall speed in words per minute; enables Farnsworth spacing."`
	FarnsworthUnitMs float64  `optional:"true" help:"Farnsworth gap unit in milliseconds. Overrides --farnsworth."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "timing",
		Short: "Show the element and gap lengths for a speed",
		Long: `Show dit, dah and gap lengths for Paris or Farnsworth timing.

Examples:
  dotdash timing -w 20
  dotdash timing -u 50
  dotdash timing -w 24 -f 5
  dotdash timing -w 18 -f 12 "CQ CQ DE SM0XYZ"`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout); err != nil {
				common.Fail("timing", err)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdout io.Writer) error {
	p, err := profile(params)
	if err != nil {
		return err
	}

	a, err := assembler.New(assembler.WithTiming(p))
	if err != nil {
		return err
	}
	paris, err := a.Duration(charset.Words("PARIS"))
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdout)
	t.SetStyle(table.StyleLight)
	t.SetAllowedRowLength(terminalWidth())
	t.SetTitle(strings.ToUpper(p.Kind().String()) + " timing")
	t.AppendHeader(table.Row{"Element", "Length"})
	t.AppendRows([]table.Row{
		{"Dit", ms(p.DitMs())},
		{"Dah", ms(p.DahMs())},
		{"Intra-character gap", ms(p.IntraCharMs())},
		{"Inter-character gap", ms(p.InterCharMs())},
		{"Inter-word gap", ms(p.InterWordMs())},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Character speed", fmt.Sprintf("%.2f WPM", p.ParisWpm())})
	if f, ok := p.(timing.Farnsworth); ok {
		t.AppendRow(table.Row{"Overall speed", fmt.Sprintf("%.2f WPM", f.FarnsworthWpm())})
	}
	t.AppendRow(table.Row{"PARIS + word gap", paris + timing.Duration(p.InterWordMs())})

	if len(params.Text) > 0 {
		text := strings.Join(params.Text, " ")
		d, err := a.Duration(charset.Words(text))
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{fmt.Sprintf("%q", text), d})
	}

	t.Render()
	return nil
}

func profile(params *Params) (timing.Profile, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg = cfg.WithOverrides(params.WPM, params.Farnsworth, 0, -1)

	if params.UnitMs <= 0 && params.FarnsworthUnitMs <= 0 {
		return cfg.Timing()
	}

	parisUnit := params.UnitMs
	if parisUnit <= 0 {
		paris, err := timing.FromWpm(cfg.Wpm)
		if err != nil {
			return nil, err
		}
		parisUnit = paris.UnitMs()
	}
	if params.FarnsworthUnitMs > 0 {
		return timing.FromDualUnitMillis(params.FarnsworthUnitMs, parisUnit)
	}
	if params.Farnsworth > 0 {
		paris, err := timing.FromUnitMillis(parisUnit)
		if err != nil {
			return nil, err
		}
		return timing.FromDualWpm(params.Farnsworth, paris.ParisWpm())
	}
	return timing.FromUnitMillis(parisUnit)
}

func ms(v float64) string {
	return fmt.Sprintf("%g ms", v)
}
