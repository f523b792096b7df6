package project

import "fmt"

// Folder body opcodes. Each opcode owns a fixed-width block; only child
// entries carry data the extractor needs.
const (
	folderOpChild = 0x20
	folderOpNull  = 0x00
	folderOpAudio = 0x24
	folderOpEnd   = 0xF1
)

// decodeFolderBody walks a payload whose block type marks it as a folder
// and appends the discovered child entries to the matching tree node.
func (c *ParseContext) decodeFolderBody(section *MIDISection, dataStart int64, dataLength uint32) error {
	r := c.buf
	r.SetPos(dataStart)

	var folder *Folder
	if section.Label == "Root Folder" {
		folder = c.Root
		folder.Record = NewRecord(section.RecordNumber, 0)
	} else {
		for _, top := range c.Root.Contents {
			if top.Record.RecordNumber == section.RecordNumber {
				folder = top
			}
		}
	}
	if folder == nil {
		// A payload referencing a section that never became a top-level
		// folder. Observed for reference payloads; they land on the root.
		c.log.Debug("folder payload by reference", "record", section.RecordNumber)
		folder = c.Root
	}

	for {
		op := r.Uint8()
		if r.Err() != nil {
			return fmt.Errorf("%w: folder %d", ErrOverrun, section.RecordNumber)
		}

		if op == folderOpEnd {
			c.log.Debug("folder end marker")
			return nil
		}

		switch {
		case op == folderOpChild:
			r.Skip(3)
			timeStamp := r.Uint32()
			r.Skip(8)
			folderRecordNumber := r.Uint32()
			index := r.Uint16()
			r.Skip(10)
			recordNumber := r.Uint32()
			r.Skip(44)

			child := &Folder{
				Index:              index,
				Record:             NewRecord(recordNumber, timeStamp),
				FolderRecordNumber: folderRecordNumber,
				HasFolderRecord:    true,
			}
			folder.Contents = append(folder.Contents, child)
			c.log.Debug("folder entry", "index", index, "record", recordNumber, "time", timeStamp)

		case op&0xF0 == 0x50:
			// Onscreen dial state.
			r.Skip(15)

		case op == folderOpNull:
			r.Skip(63)

		case op == folderOpAudio:
			r.Skip(79)

		default:
			c.log.Debug("unknown folder command, skipping", "cmd", fmt.Sprintf("%#02x", op))
			r.Skip(79)
		}

		used := r.Pos() - dataStart
		total := int64(dataLength) * 8
		if r.Err() != nil || used > total {
			return fmt.Errorf("%w: folder %d", ErrOverrun, section.RecordNumber)
		}
		if used == total {
			return nil
		}
	}
}
