//go:build linux && !cgo

package morse

import (
	"fmt"
	"os"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/gigurra/dotdash/pkg/assembler"
	"github.com/gigurra/dotdash/pkg/charset"
	"github.com/gigurra/dotdash/pkg/timing"
)

// play keys the PC speaker element by element, timed by the assembler's
// profile. Falls back to the terminal bell when no speaker is available.
func play(a *assembler.Assembler, text string) error {
	p := a.Timing()
	table := a.Table()
	freq := a.Frequency()

	fmt.Fprintln(os.Stderr, "(Rendered audio requires CGO on Linux. Using the PC speaker...)")

	for wi, word := range charset.Words(text) {
		if wi > 0 {
			time.Sleep(timing.Duration(p.InterWordMs()))
		}
		for ci, r := range word {
			if ci > 0 {
				time.Sleep(timing.Duration(p.InterCharMs()))
			}
			symbols, _ := table.Lookup(r)
			for si, s := range symbols {
				if si > 0 {
					time.Sleep(timing.Duration(p.IntraCharMs()))
				}
				ms := p.DitMs()
				if s == charset.Dah {
					ms = p.DahMs()
				}
				key(freq, ms)
			}
		}
	}
	return nil
}

func key(freq, ms float64) {
	if err := beeep.Beep(freq, int(ms)); err != nil {
		fmt.Print("\a")
		time.Sleep(timing.Duration(ms))
	}
}
