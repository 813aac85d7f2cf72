package samples

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"unicode"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/dotdash/cmd/common"
	"github.com/gigurra/dotdash/cmd/common/config"
	"github.com/gigurra/dotdash/pkg/charset"
	"github.com/gigurra/dotdash/pkg/wav"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type Params struct {
	Dir        string  `pos:"true" optional:"true" help:"Directory to write samples to (default: output_dir from config, or the cache dir)."`
	Set        string  `short:"s" optional:"true" help:"Characters to render." default:"letters" alts:"letters,numbers,punctuation,all"`
	Archive    string  `short:"a" optional:"true" help:"Also bundle the samples into this archive (zip, tar, tar.gz, tar.bz2, tar.xz, tar.zst)."`
	Format     string  `optional:"true" help:"Archive format. Overrides extension detection."`
	WPM        float64 `short:"w" optional:"true" help:"Character speed in words per minute (default from config)."`
	Farnsworth float64 `short:"f" optional:"true" help:"Overall speed in words per minute; enables Farnsworth spacing."`
	Freq       float64 `optional:"true" help:"Tone frequency in Hz (default from config)."`
	Volume     int     `optional:"true" help:"Volume in percent, 0-100 (default from config)." default:"-1"`
	Verbose    bool    `short:"v" help:"List files as they are written." default:"false"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "samples",
		Short: "Write one wav file per Morse character",
		Long: `Render every character of a set to its own wav file, named like A_[.-].wav.

Characters that are not letters or digits are named by code point, e.g. U+003F_[..--..].wav.

Examples:
  dotdash samples ./samples
  dotdash samples -s all -w 25 ./samples
  dotdash samples -s letters -a letters.zip ./samples`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			common.SetupLogging(params.Verbose)
			if err := Run(cmd.Context(), params, os.Stdout); err != nil {
				common.Fail("samples", err)
			}
		},
	}.ToCobra()
}

func Run(ctx context.Context, params *Params, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg = cfg.WithOverrides(params.WPM, params.Farnsworth, params.Freq, params.Volume)
	a, err := cfg.Assembler()
	if err != nil {
		return err
	}

	include, err := charFilter(params.Set)
	if err != nil {
		return err
	}

	dir := params.Dir
	switch {
	case dir != "":
	case cfg.OutputDir != "":
		dir = cfg.OutputDir
	default:
		dir = filepath.Join(common.CacheDir(), "samples")
	}

	table := a.Table()
	chars := lo.Filter(table.Characters(), func(r rune, _ int) bool {
		return include(r)
	})

	files := make(map[string]string, len(chars))
	for _, r := range chars {
		pcm, err := a.RenderPhrase([][]rune{{r}}, cfg.VolumePercent)
		if err != nil {
			return err
		}
		container, err := wav.Encode(pcm, wav.DefaultFormat())
		if err != nil {
			return err
		}
		symbols, _ := table.Lookup(r)
		written, err := wav.SaveFile(filepath.Join(dir, SampleName(r, symbols)), container)
		if err != nil {
			return err
		}
		slog.Debug("wrote sample", "path", written, "bytes", len(container))
		if params.Verbose {
			fmt.Fprintf(stdout, "w %s\n", written)
		}
		files[written] = filepath.Base(written)
	}
	fmt.Fprintf(stdout, "Wrote %d samples to %s\n", len(files), dir)

	if params.Archive == "" {
		return nil
	}
	if err := createArchive(ctx, params.Archive, params.Format, files); err != nil {
		return err
	}
	names, err := listArchive(ctx, params.Archive)
	if err != nil {
		return err
	}
	if len(names) != len(files) {
		return fmt.Errorf("archive %s holds %d files, expected %d", params.Archive, len(names), len(files))
	}
	fmt.Fprintf(stdout, "Archived %d samples into %s\n", len(names), params.Archive)
	return nil
}

// SampleName is the file name for one character's sample, e.g. "A_[.-].wav".
func SampleName(r rune, symbols string) string {
	name := string(r)
	if !isNameSafe(r) {
		name = fmt.Sprintf("U+%04X", r)
	}
	return name + "_[" + symbols + "]" + wav.Extension
}

func isNameSafe(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

func charFilter(set string) (func(rune) bool, error) {
	switch set {
	case "", "letters":
		return inSet(charset.Latin), nil
	case "numbers":
		return inSet(charset.ArabicNumerals), nil
	case "punctuation":
		return inSet(charset.Punctuation), nil
	case "all":
		return func(rune) bool { return true }, nil
	default:
		return nil, fmt.Errorf("unknown character set %q (letters, numbers, punctuation, all)", set)
	}
}

func inSet(m map[rune]string) func(rune) bool {
	return func(r rune) bool {
		_, ok := m[r]
		return ok
	}
}
