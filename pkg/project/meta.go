package project

import (
	"fmt"

	"github.com/bhostetler18/GBExtractorPublic/pkg/bitstream"
)

// Timing constants for the container. Offsets are in bits; everything
// after the song header is byte-aligned.
const (
	// PPQN is the tick resolution of both the container and the emitted
	// MIDI files.
	PPQN = 960

	// BaseTime is the absolute tick origin. Raw event and section
	// timestamps sit on a timeline that starts here, not at zero.
	BaseTime = 0x9600

	tempoOffsetBits   = 0x550
	timeSigOffsetBits = 0x7D0
)

// SongMeta holds the global song settings read from fixed offsets in the
// decoded buffer.
type SongMeta struct {
	// RawTempo is the tempo in beats per minute scaled by 10000.
	RawTempo uint32

	// Numerator of the time signature.
	Numerator uint8

	// DenominatorExp is the exponent of the time signature denominator:
	// the effective denominator is 2^DenominatorExp.
	DenominatorExp uint8
}

// BPM returns the tempo in beats per minute.
func (m SongMeta) BPM() float64 {
	return float64(m.RawTempo) / 10000
}

// Denominator returns the effective time signature denominator.
func (m SongMeta) Denominator() int {
	return 1 << m.DenominatorExp
}

// MillisecondsToTicks converts a duration in milliseconds to ticks at the
// song tempo.
func (m SongMeta) MillisecondsToTicks(ms float64) float64 {
	return m.BPM() * PPQN / 60000 * ms
}

// ReadSongMeta reads the tempo and time signature from their fixed bit
// offsets.
func ReadSongMeta(r *bitstream.Reader) (SongMeta, error) {
	var m SongMeta

	r.SetPos(tempoOffsetBits)
	m.RawTempo = r.Uint24()

	r.SetPos(timeSigOffsetBits)
	m.Numerator = r.Uint8()
	m.DenominatorExp = r.Uint8()

	if err := r.Err(); err != nil {
		return SongMeta{}, fmt.Errorf("buffer too small for song header: %w", err)
	}
	return m, nil
}
