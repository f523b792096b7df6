package project

import (
	"log/slog"

	"github.com/bhostetler18/GBExtractorPublic/pkg/bitstream"
	"github.com/bhostetler18/GBExtractorPublic/pkg/logger"
)

// DecodeOptions tunes the event decoder.
type DecodeOptions struct {
	// OverridePitchBend multiplies every decoded pitch bend by
	// PitchBendMultiplier, clamped to the legal range. Useful for
	// instruments that save unscaled bend values.
	OverridePitchBend   bool
	PitchBendMultiplier int
}

// ParseContext carries all state built up while walking the record
// stream. It is constructed by Parse, mutated only during parsing and
// linking, and read-only afterwards.
type ParseContext struct {
	buf  *bitstream.Reader
	opts DecodeOptions
	log  *slog.Logger

	// Meta is the global song metadata.
	Meta SongMeta

	// Sections indexes every descriptor by (record number, MIDI ID).
	Sections map[SectionKey]*MIDISection

	// sectionOrder preserves descriptor discovery order for the linker.
	sectionOrder []SectionKey

	// TrackNames maps a name record's number to the decoded display name.
	TrackNames map[uint32]string

	// TrackRefs maps a track id to its name record number.
	TrackRefs map[uint32]uint32

	// Root is the folder tree.
	Root *Folder

	// lastSection is the descriptor most recently created or looked up;
	// track mapping records are only honoured while the root folder's
	// descriptor is current.
	lastSection *MIDISection
}

// NewParseContext prepares a context over the decoded buffer. The song
// header is not read; call ReadSongMeta or Parse for that.
func NewParseContext(data []byte, opts DecodeOptions) *ParseContext {
	return &ParseContext{
		buf:        bitstream.New(data),
		opts:       opts,
		log:        logger.GetLogger(),
		Sections:   make(map[SectionKey]*MIDISection),
		TrackNames: make(map[uint32]string),
		TrackRefs:  make(map[uint32]uint32),
		Root:       NewRootFolder(),
	}
}

// Parse decodes a project-data buffer end to end: song header, record
// scan, record decoding, and linking. The returned context is immutable.
func Parse(data []byte, opts DecodeOptions) (*ParseContext, error) {
	ctx := NewParseContext(data, opts)

	meta, err := ReadSongMeta(ctx.buf)
	if err != nil {
		return nil, err
	}
	ctx.Meta = meta

	if err := ctx.ProcessRecords(ScanOffsets(ctx.buf)); err != nil {
		return nil, err
	}
	ctx.Link()
	return ctx, nil
}
