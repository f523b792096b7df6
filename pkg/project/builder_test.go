package project

// Test helpers that assemble synthetic project buffers byte by byte, in
// the same shapes the record decoder expects.

const testBufferHeader = 0x200 // room for the song header fields

// payload accumulates little-endian binary data.
type payload struct {
	buf []byte
}

func (p *payload) bytes(vals ...byte) *payload {
	p.buf = append(p.buf, vals...)
	return p
}

func (p *payload) pad(n int) *payload {
	p.buf = append(p.buf, make([]byte, n)...)
	return p
}

func (p *payload) u16(v uint16) *payload {
	p.buf = append(p.buf, byte(v), byte(v>>8))
	return p
}

func (p *payload) u24(v uint32) *payload {
	p.buf = append(p.buf, byte(v), byte(v>>8), byte(v>>16))
	return p
}

func (p *payload) u32(v uint32) *payload {
	p.buf = append(p.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	return p
}

func (p *payload) str(s string) *payload {
	p.buf = append(p.buf, s...)
	return p
}

// songBuffer builds a whole decoded buffer: a zeroed header region with
// the tempo and time signature planted at their fixed offsets, followed
// by appended records.
type songBuffer struct {
	payload
}

func newSongBuffer(rawTempo uint32, numerator, denominatorExp uint8) *songBuffer {
	b := &songBuffer{}
	b.pad(testBufferHeader)

	tempoByte := tempoOffsetBits / 8
	b.buf[tempoByte] = byte(rawTempo)
	b.buf[tempoByte+1] = byte(rawTempo >> 8)
	b.buf[tempoByte+2] = byte(rawTempo >> 16)

	tsByte := timeSigOffsetBits / 8
	b.buf[tsByte] = numerator
	b.buf[tsByte+1] = denominatorExp

	return b
}

// record appends a record header followed by its body. dataLength is the
// body length unless an override is given.
func (b *songBuffer) record(identity string, recordType uint16, recordNumber, midiID uint32, body []byte, dataLength ...uint32) *songBuffer {
	length := uint32(len(body))
	if len(dataLength) > 0 {
		length = dataLength[0]
	}
	b.str(identity)
	b.u16(recordType)
	b.u32(0) // sub type
	b.u32(recordNumber)
	b.u32(midiID)
	b.pad(10)
	b.u32(length)
	b.pad(4)
	b.bytes(body...)
	return b
}

// descriptorBody builds a type-2 section descriptor body: block type,
// fixed gaps, the section name, and the marker-prefixed length fields.
func descriptorBody(midiID uint32, name string, sectionLength, sectionStart uint32) []byte {
	p := &payload{}
	p.bytes(0x01, 0x01, 0x01) // block type, not a folder
	p.pad(5)
	p.u32(midiID)
	p.pad(4)
	p.u16(uint16(len(name)))
	p.str(name)
	p.pad(2) // gap before the marker
	p.bytes(0x20)
	p.pad(39)
	p.u24(sectionLength)
	p.pad(161)
	p.u24(sectionStart)
	return p.buf
}

// trackNameBody builds a track name record body.
func trackNameBody(name string) []byte {
	p := &payload{}
	p.u32(uint32(98 + len(name) + 1))
	p.pad(94)
	p.str(name)
	p.bytes(0)
	return p.buf
}

// trackMappingBody builds a type-4 track record body.
func trackMappingBody(trackNameBlock, trackID uint32) []byte {
	p := &payload{}
	p.pad(4)
	p.u32(trackNameBlock)
	p.u32(trackID)
	return p.buf
}

// folderChildEntry appends one 0x20 child entry to a folder body.
func (p *payload) folderChildEntry(timeStamp uint32, folderRecordNumber uint32, index uint16, recordNumber uint32) *payload {
	p.bytes(0x20)
	p.pad(3)
	p.u32(timeStamp)
	p.pad(8)
	p.u32(folderRecordNumber)
	p.u16(index)
	p.pad(10)
	p.u32(recordNumber)
	p.pad(44)
	return p
}

// noteBlock appends a note-on/note-off pair.
func (p *payload) noteBlock(channel uint8, noteStart uint32, note, velocity uint8, duration uint32) *payload {
	p.bytes(0x90 | channel)
	p.pad(3)
	p.u32(noteStart)
	p.pad(3)
	p.bytes(note, velocity)
	p.pad(3)
	p.pad(7)
	p.bytes(0x80)
	p.u32(0) // extended bytes
	p.u32(duration)
	return p
}

// twoPart appends a two-part event block for the given opcode.
func (p *payload) twoPart(opcode uint8, time uint32, valueA, valueB uint8) *payload {
	p.bytes(opcode)
	p.pad(3)
	p.u32(time)
	p.pad(3)
	p.bytes(valueA, valueB)
	p.pad(3)
	return p
}

// newTestContext wraps a bare buffer in a context for direct decoder
// calls.
func newTestContext(data []byte, opts DecodeOptions) *ParseContext {
	return NewParseContext(data, opts)
}

// testSection registers a descriptor directly, bypassing record decode.
func (c *ParseContext) testSection(label string, recordNumber, midiID, sectionLength uint32) *MIDISection {
	section := &MIDISection{
		Label:            label,
		AssociatedMidiID: midiID,
		RecordNumber:     recordNumber,
		SectionLength:    sectionLength,
	}
	key := SectionKey{RecordNumber: recordNumber, MidiID: midiID}
	c.Sections[key] = section
	c.sectionOrder = append(c.sectionOrder, key)
	return section
}
