package morse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	"github.com/gigurra/dotdash/cmd/common"
	"github.com/gigurra/dotdash/cmd/common/config"
	"github.com/gigurra/dotdash/pkg/assembler"
	"github.com/gigurra/dotdash/pkg/charset"
	"github.com/spf13/cobra"
)

var (
	clipboardWriteAll = clipboard.WriteAll
	playMorse         = play
)

type Params struct {
	Text       []string `pos:"true" optional:"true" help:"Text to encode/decode. If none provided, reads from stdin."`
	Decode     bool     `short:"d" help:"Decode morse code to text." default:"false"`
	Beep       bool     `short:"b" help:"Play the encoded text as audio." default:"false"`
	WPM        float64  `short:"w" optional:"true" help:"Character speed in words per minute (default from config)."`
	Farnsworth float64  `short:"f" optional:"true" help:"Overall speed in words per minute; enables Farnsworth spacing."`
	Freq       float64  `optional:"true" help:"Tone frequency in Hz (default from config)."`
	Volume     int      `optional:"true" help:"Volume in percent, 0-100 (default from config)." default:"-1"`
	Clip       bool     `short:"c" help:"Copy the output to the clipboard." default:"false"`
	Verbose    bool     `short:"v" help:"Verbose logging." default:"false"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "morse",
		Short:       "Encode/decode Morse code",
		Long:        "Convert text to Morse code or decode Morse code back to text. Use -b to play the result.",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			common.SetupLogging(params.Verbose)
			if err := Run(params, os.Stdin, os.Stdout); err != nil {
				common.Fail("morse", err)
			}
		},
	}.ToCobra()
}

func Run(params *Params, stdin io.Reader, stdout io.Writer) error {
	var a *assembler.Assembler
	if params.Beep && !params.Decode {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		cfg = cfg.WithOverrides(params.WPM, params.Farnsworth, params.Freq, params.Volume)
		if a, err = cfg.Assembler(); err != nil {
			return err
		}
	}

	table := charset.Default()
	if a != nil {
		table = a.Table()
	}

	var lines []string
	if len(params.Text) > 0 {
		lines = []string{strings.Join(params.Text, " ")}
	} else {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read from stdin: %w", err)
		}
	}

	var out []string
	for _, line := range lines {
		if params.Decode {
			decoded, err := table.Decode(line)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, decoded)
			out = append(out, decoded)
			continue
		}

		encoded, err := table.Encode(line)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, encoded)
		out = append(out, encoded)
		if a != nil {
			if err := playMorse(a, line); err != nil {
				return fmt.Errorf("playback failed: %w", err)
			}
		}
	}

	if params.Clip {
		if err := clipboardWriteAll(strings.Join(out, "\n")); err != nil {
			return fmt.Errorf("failed to write to clipboard: %w", err)
		}
	}
	return nil
}
