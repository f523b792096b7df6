package project

import "testing"

func TestLink_AttachesToMatchingTake(t *testing.T) {
	ctx := newTestContext(nil, DecodeOptions{})

	top := &Folder{Index: 0, Record: NewRecord(100, 0x9600), FolderRecordNumber: 500, HasFolderRecord: true}
	take0 := &Folder{Index: 0, Record: NewRecord(200, 0x9600), FolderRecordNumber: 500, HasFolderRecord: true}
	take1 := &Folder{Index: 1, Record: NewRecord(201, 0x9600), FolderRecordNumber: 500, HasFolderRecord: true}
	top.Contents = []*Folder{take0, take1}
	ctx.Root.Contents = []*Folder{top}

	section := ctx.testSection("Take Two", 201, 9, 0x800)
	section.Events = []MIDIEvent{NoteOn{Timestamp: 0x9600, Note: 64, Velocity: 80, Duration: 0x100}}

	ctx.Link()

	if len(take1.Record.Events) != 1 {
		t.Errorf("take1 got %d events, want 1", len(take1.Record.Events))
	}
	if take1.Record.Label != "Take Two" {
		t.Errorf("take1 label = %q", take1.Record.Label)
	}
	if take1.Record.SectionLength != 0x800 {
		t.Errorf("take1 sectionLength = %#x", take1.Record.SectionLength)
	}
	if len(take0.Record.Events) != 0 {
		t.Errorf("take0 got %d events, want 0", len(take0.Record.Events))
	}
}

func TestLink_SectionWithoutEventsLeftAlone(t *testing.T) {
	ctx := newTestContext(nil, DecodeOptions{})

	top := &Folder{Index: 0, Record: NewRecord(100, 0x9600)}
	ctx.Root.Contents = []*Folder{top}

	ctx.testSection("Empty", 100, 9, 0x800)
	ctx.Link()

	if top.Record.Label != "" {
		t.Errorf("label = %q, want empty (eventless sections are not attached)", top.Record.Label)
	}
	if top.Record.SectionLength != -1 {
		t.Errorf("sectionLength = %d, want -1", top.Record.SectionLength)
	}
}

func TestLink_NameResolutionMisses(t *testing.T) {
	ctx := newTestContext(nil, DecodeOptions{})

	// Mapping exists but the name record is missing.
	mappedNoName := &Folder{Index: 0, Record: NewRecord(100, 0), FolderRecordNumber: 500, HasFolderRecord: true}
	// No mapping at all.
	unmapped := &Folder{Index: 1, Record: NewRecord(101, 0), FolderRecordNumber: 999, HasFolderRecord: true}
	ctx.Root.Contents = []*Folder{mappedNoName, unmapped}
	ctx.TrackRefs[500] = 800

	ctx.Link()

	if mappedNoName.TrackName != "" {
		t.Errorf("name = %q, want empty", mappedNoName.TrackName)
	}
	if unmapped.TrackName != "" {
		t.Errorf("name = %q, want empty", unmapped.TrackName)
	}
}

func TestFolderTreeQueries(t *testing.T) {
	root := NewRootFolder()

	late := &Folder{Index: 0, Record: NewRecord(102, 0xA600)}
	early := &Folder{Index: 0, Record: NewRecord(100, 0x9600)}
	multi := &Folder{Index: 1, Record: NewRecord(101, 0x9600)}
	multi.Contents = []*Folder{
		{Index: 0, Record: NewRecord(200, 0x9600)},
		{Index: 1, Record: NewRecord(201, 0x9600)},
	}
	root.Contents = []*Folder{late, early, multi}

	tracks := root.TrackSet()
	if len(tracks) != 2 || tracks[0] != 0 || tracks[1] != 1 {
		t.Errorf("TrackSet = %v, want [0 1]", tracks)
	}

	sections := root.SectionsForTrack(0)
	if len(sections) != 2 || sections[0] != early || sections[1] != late {
		t.Error("SectionsForTrack must order by timeline position")
	}

	if got := root.MultiTakeSectionsForTrack(0); len(got) != 0 {
		t.Errorf("track 0 has %d multi-take sections, want 0", len(got))
	}
	if got := root.MultiTakeSectionsForTrack(1); len(got) != 1 {
		t.Errorf("track 1 has %d multi-take sections, want 1", len(got))
	}
}
