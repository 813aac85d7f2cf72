// Package wav wraps raw PCM in a canonical 44-byte-header RIFF/WAVE container.
package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/gigurra/dotdash/pkg/morseerr"
	"github.com/gigurra/dotdash/pkg/synth"
)

const (
	// HeaderSize is the size of the canonical PCM header in bytes.
	HeaderSize = 44

	// FormatPCM is the fmt chunk format tag for uncompressed PCM.
	FormatPCM = 1

	fmtChunkSize = 16

	// riffOverhead is what the RIFF size field counts besides the payload.
	riffOverhead = HeaderSize - 8
)

// Format describes the PCM payload.
type Format struct {
	SampleRate    int
	BitsPerSample int
	Channels      int
}

// DefaultFormat matches what package synth produces.
func DefaultFormat() Format {
	return Format{
		SampleRate:    synth.SampleRate,
		BitsPerSample: synth.BitsPerSample,
		Channels:      synth.Channels,
	}
}

func (f Format) BlockAlign() int {
	return f.Channels * f.BitsPerSample / 8
}

func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

func (f Format) validate() error {
	switch {
	case f.SampleRate <= 0 || uint64(f.SampleRate) > math.MaxUint32:
		return morseerr.InvalidArgument("sample rate must be in 1..%d, got %d", uint32(math.MaxUint32), f.SampleRate)
	case f.Channels <= 0 || f.Channels > math.MaxUint16:
		return morseerr.InvalidArgument("channels must be in 1..%d, got %d", math.MaxUint16, f.Channels)
	case f.BitsPerSample <= 0 || f.BitsPerSample%8 != 0:
		return morseerr.InvalidArgument("bits per sample must be a positive multiple of 8, got %d", f.BitsPerSample)
	case f.BlockAlign() > math.MaxUint16 || uint64(f.ByteRate()) > math.MaxUint32:
		return morseerr.InvalidArgument("format %+v does not fit a PCM header", f)
	}
	return nil
}

// Header is the fixed 44-byte PCM WAV header, in file order.
type Header struct {
	Riff          [4]byte
	RiffSize      uint32
	Wave          [4]byte
	Fmt           [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Data          [4]byte
	DataSize      uint32
}

// NewHeader describes a payload of payloadLen bytes in format f.
func NewHeader(payloadLen int, f Format) (Header, error) {
	if err := f.validate(); err != nil {
		return Header{}, err
	}
	if payloadLen < 0 || uint64(payloadLen)+riffOverhead > math.MaxUint32 {
		return Header{}, morseerr.InvalidArgument("payload of %d bytes does not fit a RIFF container", payloadLen)
	}

	return Header{
		Riff:          [4]byte{'R', 'I', 'F', 'F'},
		RiffSize:      uint32(payloadLen + riffOverhead),
		Wave:          [4]byte{'W', 'A', 'V', 'E'},
		Fmt:           [4]byte{'f', 'm', 't', ' '},
		FmtSize:       fmtChunkSize,
		AudioFormat:   FormatPCM,
		Channels:      uint16(f.Channels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.ByteRate()),
		BlockAlign:    uint16(f.BlockAlign()),
		BitsPerSample: uint16(f.BitsPerSample),
		Data:          [4]byte{'d', 'a', 't', 'a'},
		DataSize:      uint32(payloadLen),
	}, nil
}

// Format returns the audio format the header describes.
func (h Header) Format() Format {
	return Format{
		SampleRate:    int(h.SampleRate),
		BitsPerSample: int(h.BitsPerSample),
		Channels:      int(h.Channels),
	}
}

// Encode returns payload wrapped in a WAV container of HeaderSize+len(payload) bytes.
func Encode(payload []byte, f Format) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(payload))
	if _, err := Write(&buf, payload, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the container to w. Nothing is written if the format or payload is invalid.
func Write(w io.Writer, payload []byte, f Format) (int64, error) {
	h, err := NewHeader(len(payload), f)
	if err != nil {
		return 0, err
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return 0, morseerr.IOFailure(err, "write wav header")
	}
	n, err := w.Write(payload)
	if err != nil {
		return int64(HeaderSize + n), morseerr.IOFailure(err, "write wav payload")
	}
	return int64(HeaderSize + n), nil
}

// ParseHeader decodes the first HeaderSize bytes of a canonical PCM WAV file.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, morseerr.InvalidArgument("wav header needs %d bytes, got %d", HeaderSize, len(b))
	}
	var h Header
	if err := binary.Read(bytes.NewReader(b[:HeaderSize]), binary.LittleEndian, &h); err != nil {
		return Header{}, morseerr.InvalidArgument("decode wav header: %v", err)
	}
	switch {
	case string(h.Riff[:]) != "RIFF" || string(h.Wave[:]) != "WAVE":
		return Header{}, morseerr.InvalidArgument("not a RIFF/WAVE file")
	case string(h.Fmt[:]) != "fmt " || h.FmtSize != fmtChunkSize || h.AudioFormat != FormatPCM:
		return Header{}, morseerr.InvalidArgument("not a canonical PCM fmt chunk")
	case string(h.Data[:]) != "data":
		return Header{}, morseerr.InvalidArgument("expected data chunk at offset 36")
	}
	return h, nil
}

// Payload returns the PCM data following the header of a container produced by Encode.
func Payload(container []byte) ([]byte, error) {
	h, err := ParseHeader(container)
	if err != nil {
		return nil, err
	}
	end := HeaderSize + int(h.DataSize)
	if end > len(container) {
		return nil, morseerr.InvalidArgument("data chunk claims %d bytes, only %d present", h.DataSize, len(container)-HeaderSize)
	}
	return container[HeaderSize:end], nil
}
