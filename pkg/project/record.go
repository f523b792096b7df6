package project

import (
	"fmt"
	"strings"
	"unicode"
)

// recordHeader is the fixed 36-byte header in front of every record
// payload.
type recordHeader struct {
	identity     string
	recordType   uint16
	subType      uint32
	recordNumber uint32
	midiID       uint32
	dataLength   uint32 // payload bytes
}

// ProcessRecords decodes every record in stream order. The cursor is
// repositioned to each scanned offset before dispatch, so a partial
// advance through one record never corrupts the next.
func (c *ParseContext) ProcessRecords(offsets []int64) error {
	for _, off := range offsets {
		if err := c.processRecord(off); err != nil {
			return err
		}
	}
	return nil
}

func (c *ParseContext) processRecord(off int64) error {
	r := c.buf
	r.SetPos(off)

	var hdr recordHeader
	hdr.identity = string(r.Bytes(4))
	hdr.recordType = r.Uint16()
	hdr.subType = r.Uint32()
	hdr.recordNumber = r.Uint32()
	hdr.midiID = r.Uint32()
	r.Skip(10)
	hdr.dataLength = r.Uint32()
	r.Skip(4)

	dataStart := r.Pos()
	blockType := r.Bytes(3)

	if r.Err() != nil {
		// A signature match too close to the end of the buffer to carry a
		// record. Nothing to decode.
		c.log.Warn("truncated record header, skipping", "offset", off/8)
		return nil
	}

	c.log.Debug("record",
		"offset", off/8, "identity", hdr.identity, "type", hdr.recordType,
		"record", hdr.recordNumber, "midiID", hdr.midiID, "length", hdr.dataLength)

	switch {
	case hdr.identity == tagTrackName:
		return c.decodeTrackName(hdr, dataStart)

	case hdr.recordType == 2 && (hdr.identity == tagEvSq || hdr.identity == tagMSeq):
		return c.decodeSectionDescriptor(hdr)

	case hdr.recordType == 1:
		return c.decodeMIDIPayload(hdr, dataStart, blockType)

	case hdr.recordType == 4 && hdr.identity == tagTrack &&
		c.lastSection != nil && c.lastSection.Label == "Root Folder":
		return c.decodeTrackMapping(dataStart)

	default:
		c.log.Debug("ignoring record", "identity", hdr.identity, "type", hdr.recordType)
		return nil
	}
}

// decodeTrackName handles a track name record: a length, a fixed gap, and
// a zero-terminated UTF-8 name.
func (c *ParseContext) decodeTrackName(hdr recordHeader, dataStart int64) error {
	r := c.buf
	r.SetPos(dataStart)

	length := r.Uint32()
	if r.Err() == nil && length < 98 {
		return fmt.Errorf("%w: %d", ErrBadNameRecord, length)
	}
	r.Skip(94)

	nameStart := r.Pos()
	nameLen := 0
	for i := 0; i < int(length)-98; i++ {
		nameLen = i
		if r.Uint8() == 0 {
			break
		}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: track name record %d: %v", ErrOverrun, hdr.recordNumber, err)
	}
	if nameLen == 0 {
		c.log.Debug("no track name", "record", hdr.recordNumber)
		return nil
	}

	r.SetPos(nameStart)
	name := string(r.Bytes(nameLen))
	c.log.Debug("track name", "record", hdr.recordNumber, "name", name)
	c.TrackNames[hdr.recordNumber] = name
	return nil
}

// decodeSectionDescriptor handles a type-2 record: the section name
// followed, at a marker found by a bounded forward scan, by the section
// length and start.
func (c *ParseContext) decodeSectionDescriptor(hdr recordHeader) error {
	r := c.buf

	r.Skip(5)
	associatedMidiID := r.Uint32()
	r.Skip(4)
	nameLen := r.Uint16()
	if r.Err() != nil || nameLen == 0 {
		return r.Err()
	}

	origName := string(r.Bytes(int(nameLen)))
	label := sanitizeLabel(origName)

	key := SectionKey{RecordNumber: hdr.recordNumber, MidiID: associatedMidiID}
	c.log.Debug("section descriptor", "label", label, "orig", origName, "key", key)

	// The length field has no fixed offset from the name; scan forward for
	// its 0x20 marker.
	var sectionLength, sectionStart uint32
	found := false
	for i := 0; i < 100; i++ {
		if r.Uint8() == 0x20 {
			r.Skip(39)
			sectionLength = r.Uint24()
			r.Skip(161)
			sectionStart = r.Uint24()
			found = true
			break
		}
	}
	if err := r.Err(); err != nil {
		return fmt.Errorf("%w: descriptor %d: %v", ErrOverrun, hdr.recordNumber, err)
	}
	if !found {
		return fmt.Errorf("%w (record %d, %q)", ErrSectionMarker, hdr.recordNumber, label)
	}

	if _, exists := c.Sections[key]; exists {
		return fmt.Errorf("%w %d:%d", ErrDuplicateSection, key.RecordNumber, key.MidiID)
	}

	section := &MIDISection{
		Label:            label,
		AssociatedMidiID: associatedMidiID,
		RecordNumber:     hdr.recordNumber,
		SectionLength:    sectionLength,
		SectionStart:     sectionStart,
	}
	c.Sections[key] = section
	c.sectionOrder = append(c.sectionOrder, key)
	c.lastSection = section

	c.log.Debug("section bounds", "label", label, "length", sectionLength, "start", sectionStart)
	return nil
}

// decodeMIDIPayload handles a type-1 record, routing it to the folder
// decoder or the event decoder depending on its block type.
func (c *ParseContext) decodeMIDIPayload(hdr recordHeader, dataStart int64, blockType []byte) error {
	key := SectionKey{RecordNumber: hdr.recordNumber, MidiID: hdr.midiID}
	section := c.Sections[key]
	c.lastSection = section
	if section == nil {
		c.log.Debug("payload without descriptor", "key", key)
		return nil
	}

	isFolder := len(blockType) == 3 && blockType[1] == 0x00 &&
		(blockType[0] == 0x20 || blockType[0] == 0x24)

	if isFolder {
		if section.Label == "Automation" {
			c.log.Debug("skipping automation folder", "record", hdr.recordNumber)
			return nil
		}
		return c.decodeFolderBody(section, dataStart, hdr.dataLength)
	}

	events, err := c.decodeMIDIEvents(section, dataStart, hdr.dataLength)
	if err != nil {
		return err
	}
	section.Events = events
	return nil
}

// decodeTrackMapping handles a track record seen while the root folder
// descriptor is current: it ties a track id to its name record.
func (c *ParseContext) decodeTrackMapping(dataStart int64) error {
	r := c.buf
	r.SetPos(dataStart)
	r.Skip(4)
	trackNameBlock := r.Uint32()
	trackID := r.Uint32()
	if err := r.Err(); err != nil {
		c.log.Warn("truncated track mapping, skipping")
		return nil
	}

	if _, seen := c.TrackRefs[trackID]; !seen && trackNameBlock != 0 {
		c.TrackRefs[trackID] = trackNameBlock
		c.log.Debug("track mapping", "trackID", trackID, "nameBlock", trackNameBlock)
	}
	return nil
}

// sanitizeLabel keeps letters, digits, and a small set of punctuation so
// section labels are safe to reuse in names and logs.
func sanitizeLabel(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("._- ", r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
