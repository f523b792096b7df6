package midiout

import "github.com/bhostetler18/GBExtractorPublic/pkg/project"

// NoteFilter drops notes outside a velocity window or below a duration
// floor. Invert keeps exactly the notes the filter would drop, so a
// filtered file and its delta partition the original.
type NoteFilter struct {
	VelMin uint8
	VelMax uint8
	DurMin float64 // ticks
	Invert bool
}

// Keep reports whether the note passes the filter.
func (f *NoteFilter) Keep(note project.NoteOn) bool {
	keep := true
	if float64(note.Duration) < f.DurMin {
		keep = false
	}
	if note.Velocity < f.VelMin || note.Velocity > f.VelMax {
		keep = false
	}
	if f.Invert {
		keep = !keep
	}
	return keep
}
