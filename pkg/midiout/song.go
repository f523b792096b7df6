package midiout

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/bhostetler18/GBExtractorPublic/pkg/project"
)

// timedMessage is a MIDI message at an absolute tick. Tracks accumulate
// these and the delta encoding happens once at write time.
type timedMessage struct {
	tick uint32
	msg  midi.Message
}

// songFile builds one Standard MIDI file, format 1, PPQN 960. Track 0
// additionally carries the song's time signature and tempo.
type songFile struct {
	meta   project.SongMeta
	tracks [][]timedMessage
	names  []string
}

// newSongFile allocates a file with the given number of tracks. Track 0
// starts out with a placeholder name that mode-specific names overwrite.
func newSongFile(meta project.SongMeta, numTracks int) *songFile {
	if numTracks < 1 {
		numTracks = 1
	}
	f := &songFile{
		meta:   meta,
		tracks: make([][]timedMessage, numTracks),
		names:  make([]string, numTracks),
	}
	f.names[0] = "Track_0"
	return f
}

// SetTrackName names a track; the name lands at tick 0 when writing.
func (f *songFile) SetTrackName(track int, name string) {
	if track >= 0 && track < len(f.names) {
		f.names[track] = name
	}
}

// add appends a message to a track at an absolute tick.
func (f *songFile) add(track int, tick uint32, msg midi.Message) {
	if track < 0 || track >= len(f.tracks) {
		return
	}
	f.tracks[track] = append(f.tracks[track], timedMessage{tick: tick, msg: msg})
}

// addNote appends the on/off pair for a note with a duration.
func (f *songFile) addNote(track int, tick uint32, channel, note, velocity uint8, duration uint32) {
	f.add(track, tick, midi.NoteOn(channel, note, velocity))
	f.add(track, tick+duration, midi.NoteOff(channel, note))
}

// WriteTo encodes and writes the file.
func (f *songFile) WriteTo(w io.Writer) error {
	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(project.PPQN)

	for i, events := range f.tracks {
		var track smf.Track

		if i == 0 {
			track = append(track, smf.Event{Message: smf.Message(
				smf.MetaTimeSig(f.meta.Numerator, uint8(f.meta.Denominator()), 24, 8))})
			track = append(track, smf.Event{Message: smf.Message(smf.MetaTempo(f.meta.BPM()))})
		}
		if f.names[i] != "" {
			track = append(track, smf.Event{Message: smf.Message(smf.MetaTrackSequenceName(f.names[i]))})
		}

		// Stable sort keeps stream order at equal ticks, except that a
		// note off must precede a note on landing on the same tick or the
		// new note would be cut short.
		sorted := make([]timedMessage, len(events))
		copy(sorted, events)
		sort.SliceStable(sorted, func(a, b int) bool {
			if sorted[a].tick != sorted[b].tick {
				return sorted[a].tick < sorted[b].tick
			}
			return isNoteOff(sorted[a].msg) && !isNoteOff(sorted[b].msg)
		})

		var lastTick uint32
		for _, tm := range sorted {
			track = append(track, smf.Event{Delta: tm.tick - lastTick, Message: smf.Message(tm.msg)})
			lastTick = tm.tick
		}

		track = append(track, smf.Event{Message: smf.EOT})
		s.Add(track)
	}

	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("could not write MIDI file: %w", err)
	}
	return nil
}

func isNoteOff(msg midi.Message) bool {
	var channel, key, velocity uint8
	if msg.GetNoteOff(&channel, &key, &velocity) {
		return true
	}
	return msg.GetNoteOn(&channel, &key, &velocity) && velocity == 0
}
