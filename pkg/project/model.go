package project

import "sort"

// SectionKey identifies a section descriptor and its later MIDI payload.
type SectionKey struct {
	RecordNumber uint32
	MidiID       uint32
}

// MIDISection is a section descriptor. Events is filled in when the
// matching MIDI payload record is decoded.
type MIDISection struct {
	Label            string
	AssociatedMidiID uint32
	RecordNumber     uint32
	SectionLength    uint32 // ticks
	SectionStart     uint32 // ticks
	Events           []MIDIEvent
}

// Record is the payload attached to a folder node after linking.
type Record struct {
	RecordNumber uint32

	// TimeStamp is where the section starts on the song timeline
	// (absolute ticks, BaseTime origin). Zero for the root record.
	TimeStamp uint32

	Events []MIDIEvent
	Label  string

	// SectionLength is the linked section's length in ticks, or -1 when
	// no payload was matched to this record.
	SectionLength int64
}

// NewRecord returns a Record with no linked section.
func NewRecord(recordNumber, timeStamp uint32) *Record {
	return &Record{RecordNumber: recordNumber, TimeStamp: timeStamp, SectionLength: -1}
}

// Folder is a node in the two-level project tree. The root's Contents are
// the top-level track sections; a top-level folder's Contents are its
// takes (two or more for a multi-take section, none for a single take).
type Folder struct {
	// Index is the track number for a top-level folder and the take
	// index for a take folder.
	Index uint16

	Record *Record

	// FolderRecordNumber links the folder to the track mapping records;
	// HasFolderRecord is false for the root.
	FolderRecordNumber uint32
	HasFolderRecord    bool

	// TrackName is the resolved display name, empty when unresolved.
	TrackName string

	Contents []*Folder
}

// NewRootFolder returns the sentinel root of a project tree.
func NewRootFolder() *Folder {
	return &Folder{Record: NewRecord(0, 0)}
}

// TrackSet returns the distinct track numbers of the top-level folders,
// ascending.
func (f *Folder) TrackSet() []uint16 {
	seen := make(map[uint16]bool)
	var tracks []uint16
	for _, top := range f.Contents {
		if !seen[top.Index] {
			seen[top.Index] = true
			tracks = append(tracks, top.Index)
		}
	}
	sort.Slice(tracks, func(i, j int) bool { return tracks[i] < tracks[j] })
	return tracks
}

// SectionsForTrack returns the top-level folders for a track, ordered by
// their position on the song timeline.
func (f *Folder) SectionsForTrack(track uint16) []*Folder {
	var sections []*Folder
	for _, top := range f.Contents {
		if top.Index == track {
			sections = append(sections, top)
		}
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Record.TimeStamp < sections[j].Record.TimeStamp
	})
	return sections
}

// MultiTakeSectionsForTrack returns the track's sections that contain
// takes, ordered by their position on the song timeline.
func (f *Folder) MultiTakeSectionsForTrack(track uint16) []*Folder {
	var sections []*Folder
	for _, top := range f.Contents {
		if top.Index == track && len(top.Contents) > 0 {
			sections = append(sections, top)
		}
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Record.TimeStamp < sections[j].Record.TimeStamp
	})
	return sections
}

// TrackNameFor returns the resolved name of the first folder on the given
// track, or the empty string.
func (f *Folder) TrackNameFor(track uint16) string {
	for _, top := range f.Contents {
		if top.Index == track {
			return top.TrackName
		}
	}
	return ""
}
