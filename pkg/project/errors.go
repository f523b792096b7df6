package project

import "errors"

// Fatal format errors. Decoders wrap these with positional context so
// callers can test the class with errors.Is while still printing a single
// useful line.
var (
	// ErrSectionMarker reports a section descriptor whose length marker was
	// not found within the scan window.
	ErrSectionMarker = errors.New("did not find section length")

	// ErrBadNameRecord reports a track name record with an invalid length.
	ErrBadNameRecord = errors.New("section length invalid")

	// ErrDuplicateSection reports two descriptors sharing the same
	// (record number, MIDI ID) key.
	ErrDuplicateSection = errors.New("found second record for key")

	// ErrUnknownCommand reports an opcode the event decoder cannot place,
	// including a note-on that is not followed by a note-off.
	ErrUnknownCommand = errors.New("unrecognised command")

	// ErrOverrun reports a decoder running past its record's payload.
	ErrOverrun = errors.New("went past end of buffer")
)
