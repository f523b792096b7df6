package project

// Link attaches each decoded section payload to the folder whose record
// matches it and resolves the folders' display names. Must be called once
// after ProcessRecords; the tree is read-only afterwards.
func (c *ParseContext) Link() {
	for _, top := range c.Root.Contents {
		c.resolveTrackName(top)
		for _, sub := range top.Contents {
			c.resolveTrackName(sub)
		}
	}

	for _, key := range c.sectionOrder {
		section := c.Sections[key]
		if len(section.Events) == 0 {
			continue
		}

		matches := 0
		for _, top := range c.Root.Contents {
			matches += attachSection(top, section)
			for _, sub := range top.Contents {
				matches += attachSection(sub, section)
			}
		}

		if matches != 1 {
			c.log.Warn("unexpected number of matching records for section",
				"matches", matches, "record", section.RecordNumber)
		}
	}
}

// attachSection copies the section payload onto the folder's record when
// the record numbers agree. Returns 1 on a match so callers can count.
func attachSection(folder *Folder, section *MIDISection) int {
	if folder.Record.RecordNumber != section.RecordNumber {
		return 0
	}
	folder.Record.Events = section.Events
	folder.Record.SectionLength = int64(section.SectionLength)
	folder.Record.Label = section.Label
	return 1
}

// resolveTrackName follows folder record → track id → name record. Either
// lookup may miss, leaving the name empty.
func (c *ParseContext) resolveTrackName(folder *Folder) {
	if !folder.HasFolderRecord || folder.TrackName != "" {
		return
	}
	ref, ok := c.TrackRefs[folder.FolderRecordNumber]
	if !ok {
		return
	}
	folder.TrackName = c.TrackNames[ref]
}
