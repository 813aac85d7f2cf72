package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/dotdash/cmd/common"
	"github.com/gigurra/dotdash/cmd/common/config"
	"github.com/gigurra/dotdash/pkg/assembler"
	"github.com/gigurra/dotdash/pkg/charset"
	"github.com/gigurra/dotdash/pkg/wav"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

type Params struct {
	Text       []string `pos:"true" optional:"true" help:"Text to render. If none provided, reads --input or stdin."`
	Output     string   `short:"o" help:"Output wav file, or - for stdout. The .wav extension is added if missing."`
	Input      string   `short:"i" optional:"true" help:"Read the text from this file."`
	Watch      bool     `help:"Re-render whenever --input changes." default:"false"`
	WPM        float64  `short:"w" optional:"true" help:"Character speed in words per minute (default from config)."`
	Farnsworth float64  `short:"f" optional:"true" help:"Overall speed in words per minute; enables Farnsworth spacing."`
	Freq       float64  `optional:"true" help:"Tone frequency in Hz (default from config)."`
	Volume     int      `optional:"true" help:"Volume in percent, 0-100 (default from config)." default:"-1"`
	Force      bool     `help:"Write wav data to stdout even if it is a terminal." default:"false"`
	Verbose    bool     `short:"v" help:"Verbose logging." default:"false"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "render",
		Short: "Render text as a Morse code wav file",
		Long: `Render text as 16-bit 44.1 kHz mono Morse code audio in a wav container.

Examples:
  dotdash render -o sos SOS
  dotdash render -w 25 -f 15 -i message.txt -o message.wav
  dotdash render -i message.txt -o message.wav --watch
  echo "CQ CQ" | dotdash render -o - | aplay`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			common.SetupLogging(params.Verbose)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			err := Run(ctx, params, os.Stdin, os.Stdout, os.Stderr)
			stop()
			if err != nil {
				common.Fail("render", err)
			}
		},
	}.ToCobra()
}

func Run(ctx context.Context, params *Params, stdin io.Reader, stdout, stderr io.Writer) error {
	if params.Output == "" {
		return errors.New("output file required (-o)")
	}
	if params.Output == "-" && !params.Force && stdoutIsTerminal() {
		return errors.New("refusing to write wav data to a terminal (use --force)")
	}
	if params.Watch && (params.Input == "" || len(params.Text) > 0) {
		return errors.New("--watch requires --input and no text arguments")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg = cfg.WithOverrides(params.WPM, params.Farnsworth, params.Freq, params.Volume)
	a, err := cfg.Assembler()
	if err != nil {
		return err
	}

	output := params.Output
	if output != "-" && cfg.OutputDir != "" && !filepath.IsAbs(output) {
		output = filepath.Join(cfg.OutputDir, output)
	}

	renderOnce := func() error {
		text, err := readText(params, stdin)
		if err != nil {
			return err
		}
		return renderTo(a, cfg.VolumePercent, text, output, stdout, stderr)
	}

	if err := renderOnce(); err != nil {
		return err
	}
	if !params.Watch {
		return nil
	}

	fmt.Fprintf(stderr, "Watching %s...\n", params.Input)
	return watchFile(ctx, params.Input, func() {
		if err := renderOnce(); err != nil {
			slog.Error("re-render failed", "input", params.Input, "error", err)
		}
	})
}

func readText(params *Params, stdin io.Reader) (string, error) {
	switch {
	case len(params.Text) > 0:
		return strings.Join(params.Text, " "), nil
	case params.Input != "":
		data, err := os.ReadFile(params.Input)
		if err != nil {
			return "", fmt.Errorf("cannot read input: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(data), nil
	}
}

func renderTo(a *assembler.Assembler, volume int, text, output string, stdout, stderr io.Writer) error {
	pcm, err := a.RenderText(text, volume)
	if err != nil {
		return err
	}
	duration, err := a.Duration(charset.Words(text))
	if err != nil {
		return err
	}

	if output == "-" {
		if _, err := wav.Write(stdout, pcm, wav.DefaultFormat()); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "%s, %d bytes\n", duration.Round(time.Millisecond), wav.HeaderSize+len(pcm))
		return nil
	}

	container, err := wav.Encode(pcm, wav.DefaultFormat())
	if err != nil {
		return err
	}
	written, err := wav.SaveFile(output, container)
	if err != nil {
		return err
	}
	slog.Debug("rendered", "path", written, "duration", duration, "bytes", len(container))
	fmt.Fprintf(stderr, "%s: %s, %d bytes\n", written, duration.Round(time.Millisecond), len(container))
	return nil
}
