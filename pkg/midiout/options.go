// Package midiout renders a linked project tree to Standard MIDI files.
// Each mode is a pure function of the tree and song metadata; nothing in
// the tree is mutated while emitting.
package midiout

import "strconv"

// Options selects emit modes and tunes note filtering and stem routing.
type Options struct {
	// EnableCutUp emits every permutation of take choices per track.
	EnableCutUp bool

	// MaxPerms caps cut-up files per track; -1 means no limit.
	MaxPerms int

	// FilterNotes emits filtered section files using the velocity window
	// and duration floor below.
	FilterNotes   bool
	VelocityMin   uint8
	VelocityMax   uint8
	DurationMinMS float64

	// TrackLimit caps the number of stem tracks per file, 1..128.
	TrackLimit int

	// RenameTracks names stem tracks from TrackMap instead of the raw
	// note number.
	RenameTracks bool
	TrackMap     map[uint8]string
}

// NoteName returns the display name for a note on a stem track.
func (o Options) NoteName(note uint8) string {
	if o.RenameTracks {
		if name, ok := o.TrackMap[note]; ok {
			return name
		}
	}
	return strconv.Itoa(int(note))
}

// DefaultTrackMap maps drum-kit notes to instrument names. The mapping
// follows the General MIDI percussion layout with a few instrument pads
// that sit below it.
var DefaultTrackMap = map[uint8]string{
	31: "PedalHiHat",
	32: "RimShot",
	33: "PedalHiHat",
	35: "Kick",
	36: "Kick2",
	37: "Sidestick",
	38: "Snare",
	39: "Clap",
	40: "Rimshot",
	41: "TomFloorLo",
	42: "HiHatClosed",
	43: "TomFloorHi",
	44: "PedalHiHat",
	45: "TomLo",
	46: "HiHatOpen",
	47: "TomLoMid",
	48: "TomHiMid",
	49: "Crash",
	50: "TomHi",
	51: "Ride",
	52: "RideChina",
	53: "RideBell",
	54: "Tambourine",
	55: "Splash",
	56: "Cowbell",
	57: "Crash2",
	58: "Vibraslap",
	59: "Ride2",
	60: "BongoHi",
	61: "BongoLo",
	62: "CongaMuteHi",
	63: "CongaOpenHi",
	64: "CongaLo",
	65: "TimbaleHi",
	66: "TimbaleLo",
	67: "AgogoHi",
	68: "AgogoLo",
	69: "Cabasa",
	70: "Maracas",
	71: "WhistleShort",
	72: "WhistleLong",
	73: "GuiroShort",
	74: "GuiroLong",
	75: "Claves",
	76: "WoodBlockHi",
	77: "WoodBlockLo",
	78: "CuicaMute",
	79: "CuicaOpen",
	80: "TriangleMute",
	81: "TriangleOpen",
}
