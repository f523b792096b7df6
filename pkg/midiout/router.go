package midiout

import "github.com/bhostetler18/GBExtractorPublic/pkg/project"

// NoteRouter assigns each distinct note value to a stem track, in
// first-seen order. Once the track limit is reached new notes wrap back
// to track zero, round-robin.
type NoteRouter struct {
	assignments map[uint8]int
	counter     int
	unique      int
	limit       int
}

// NewNoteRouter returns a router capped at limit stem tracks.
func NewNoteRouter(limit int) *NoteRouter {
	return &NoteRouter{assignments: make(map[uint8]int), limit: limit}
}

// TrackFor returns the stem track for a note, assigning one if the note
// has not been seen before.
func (nr *NoteRouter) TrackFor(note uint8) int {
	if track, ok := nr.assignments[note]; ok {
		return track
	}

	track := nr.counter
	nr.assignments[note] = track
	nr.counter++
	if nr.unique < nr.limit {
		nr.unique++
	}
	if nr.counter >= nr.limit {
		nr.counter = 0
	}
	return track
}

// AddNotes seeds the router with every note event in the list, so the
// track count is known before any file is allocated.
func (nr *NoteRouter) AddNotes(events []project.MIDIEvent) {
	for _, ev := range events {
		if note, ok := ev.(project.NoteOn); ok {
			nr.TrackFor(note.Note)
		}
	}
}

// TrackCount returns the number of stem tracks needed, at least one.
func (nr *NoteRouter) TrackCount() int {
	if nr.unique < 1 {
		return 1
	}
	return nr.unique
}
