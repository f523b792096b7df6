package project

import "fmt"

// twoPartEvent is the shared wire shape of controller, pressure, pitch
// bend, and several opaque opcodes: a timestamp and two value bytes.
type twoPartEvent struct {
	time   uint32
	valueA uint8
	valueB uint8
}

// readTwoPartEvent consumes the 15 bytes following a two-part opcode.
func (c *ParseContext) readTwoPartEvent() twoPartEvent {
	r := c.buf
	r.Skip(3)
	t := r.Uint32()
	r.Skip(3)
	a := r.Uint8()
	b := r.Uint8()
	r.Skip(3)
	return twoPartEvent{time: t, valueA: a, valueB: b}
}

// decodeMIDIEvents walks a section's event payload and returns the
// decoded events in stream order. Timestamps are absolute ticks; notes
// starting at or past the section end are dropped and note durations are
// truncated to the section end. Controller, pressure and pitch bend events
// are dropped only when they fall after the section end.
func (c *ParseContext) decodeMIDIEvents(section *MIDISection, dataStart int64, dataLength uint32) ([]MIDIEvent, error) {
	r := c.buf
	r.SetPos(dataStart)

	var events []MIDIEvent
	var lastNote *NoteOn
	sectionEnd := uint32(BaseTime) + section.SectionLength

	for {
		cmd := r.Uint8()
		if r.Err() != nil {
			return nil, fmt.Errorf("%w: events for %d", ErrOverrun, section.RecordNumber)
		}
		channel := cmd & 0x0F

		switch {
		case cmd >= 0x90 && cmd <= 0x9F:
			// Note on; the matching note off with the duration follows in
			// the same block.
			r.Skip(3)
			noteStart := r.Uint32()
			r.Skip(3)
			note := r.Uint8()
			velocity := r.Uint8()
			r.Skip(3)
			r.Skip(7)

			next := r.Uint8()
			if r.Err() == nil && (next < 0x80 || next > 0x8F) {
				return nil, fmt.Errorf("%w: %#02x (expected note off after note on)", ErrUnknownCommand, next)
			}
			extendedBytes := r.Uint32()
			duration := r.Uint32()
			if extendedBytes > 0 {
				c.log.Debug("extended bytes on note off", "value", fmt.Sprintf("%#x", extendedBytes))
			}

			add := true
			// The source can emit the same note twice at the same tick;
			// keep only the first.
			if lastNote != nil && lastNote.Note == note && lastNote.Timestamp == noteStart {
				add = false
			}
			if noteStart >= sectionEnd {
				c.log.Debug("note starts past section end, dropping", "note", note, "time", noteStart)
				add = false
			} else if noteStart+duration > sectionEnd {
				duration = sectionEnd - noteStart
				c.log.Debug("note duration truncated to section end", "note", note, "duration", duration)
			}

			if add {
				ev := NoteOn{
					Timestamp: noteStart,
					Channel:   channel,
					Note:      note,
					Velocity:  velocity,
					Duration:  duration,
				}
				events = append(events, ev)
				lastNote = &ev
			}

		case cmd <= 0x0A || cmd == 0xFF:
			// Internal commands / screen elements.
			r.Skip(6)
			next := r.Uint8()
			if r.Err() == nil && next != 0xA8 && next != 0xA7 && next != 0xB5 {
				c.log.Warn("unknown follow-up command", "cmd", fmt.Sprintf("%#02x", next))
			}
			r.Skip(8)

		case cmd >= 0x20 && cmd <= 0x2F, cmd == 0x40,
			cmd >= 0x80 && cmd <= 0x8F,
			cmd >= 0xA0 && cmd <= 0xAF,
			cmd >= 0xC0 && cmd <= 0xCF:
			// Opaque fixed-width blocks.
			r.Skip(15)

		case cmd >= 0x60 && cmd <= 0x6F:
			// Opaque, except that 48-byte payloads carry a double-width
			// opening block.
			if dataLength == 48 {
				r.Skip(31)
			} else {
				r.Skip(15)
			}

		case cmd >= 0x50 && cmd <= 0x5F:
			// Synth knob movements. Parsed for stream alignment, not
			// emitted.
			c.readTwoPartEvent()

		case cmd >= 0x70 && cmd <= 0x7F:
			r.Skip(31)

		case cmd >= 0xB0 && cmd <= 0xBF:
			tp := c.readTwoPartEvent()
			if tp.time > sectionEnd {
				c.log.Debug("controller event past section end", "time", tp.time)
			} else {
				events = append(events, ControlChange{
					Timestamp:  tp.time,
					Channel:    channel,
					Controller: tp.valueB,
					Value:      tp.valueA,
				})
			}

		case cmd >= 0xD0 && cmd <= 0xDF:
			tp := c.readTwoPartEvent()
			if tp.time > sectionEnd {
				c.log.Debug("pressure event past section end", "time", tp.time)
			} else {
				events = append(events, ChannelPressure{
					Timestamp: tp.time,
					Channel:   channel,
					Pressure:  tp.valueA,
				})
			}

		case cmd >= 0xE0 && cmd <= 0xEF:
			tp := c.readTwoPartEvent()
			raw := int(tp.valueA&0x7F)<<7 | int(tp.valueB&0x7F)
			pw := raw - 8192
			if c.opts.OverridePitchBend {
				pw *= c.opts.PitchBendMultiplier
				if pw < -8192 {
					pw = -8192
				}
				if pw > 8191 {
					pw = 8191
				}
			}
			if tp.time > sectionEnd {
				c.log.Debug("pitch bend past section end", "time", tp.time)
			} else {
				events = append(events, PitchWheel{
					Timestamp: tp.time,
					Channel:   channel,
					Value:     pw,
				})
			}

		case cmd == 0xF1:
			c.log.Debug("event stream end marker")
			return events, nil

		case cmd >= 0x30 && cmd <= 0x3F, cmd == 0x11, cmd == 0x12:
			// Start of a trailing non-MIDI block.
			c.log.Debug("tail block, stopping", "cmd", fmt.Sprintf("%#02x", cmd))
			return events, nil

		default:
			return nil, fmt.Errorf("%w: %#02x", ErrUnknownCommand, cmd)
		}

		used := r.Pos() - dataStart
		total := int64(dataLength) * 8
		if r.Err() != nil || used > total {
			return nil, fmt.Errorf("%w: events for %d", ErrOverrun, section.RecordNumber)
		}
		if used == total {
			return events, nil
		}
	}
}
