//go:build (linux && cgo) || windows || darwin

package morse

import (
	"bytes"
	"sync"
	"time"

	"github.com/gigurra/dotdash/pkg/assembler"
	"github.com/gigurra/dotdash/pkg/wav"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	beepwav "github.com/gopxl/beep/v2/wav"
)

var (
	speakerOnce sync.Once
	speakerErr  error
)

// play renders text and streams the resulting wav through the speaker,
// blocking until playback finishes.
func play(a *assembler.Assembler, text string) error {
	pcm, err := a.RenderText(text, a.Volume())
	if err != nil {
		return err
	}
	container, err := wav.Encode(pcm, wav.DefaultFormat())
	if err != nil {
		return err
	}

	streamer, format, err := beepwav.Decode(bytes.NewReader(container))
	if err != nil {
		return err
	}
	defer streamer.Close()

	speakerOnce.Do(func() {
		speakerErr = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	})
	if speakerErr != nil {
		return speakerErr
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}
