package midiout

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gitlab.com/gomidi/midi/v2"

	"github.com/bhostetler18/GBExtractorPublic/pkg/fileutil"
	"github.com/bhostetler18/GBExtractorPublic/pkg/logger"
	"github.com/bhostetler18/GBExtractorPublic/pkg/project"
)

// Emitter renders a linked project tree into the output directory.
type Emitter struct {
	Root        *project.Folder
	Meta        project.SongMeta
	OutDir      string
	ProjectName string
	Opts        Options

	log *slog.Logger
}

// NewEmitter prepares an emitter over an immutable, linked tree.
func NewEmitter(root *project.Folder, meta project.SongMeta, outDir, projectName string, opts Options) *Emitter {
	return &Emitter{
		Root:        root,
		Meta:        meta,
		OutDir:      outDir,
		ProjectName: projectName,
		Opts:        opts,
		log:         logger.GetLogger(),
	}
}

// Emit runs every enabled output mode.
func (e *Emitter) Emit() error {
	if err := e.EmitTracks(); err != nil {
		return err
	}
	if err := e.EmitSong(); err != nil {
		return err
	}
	if err := e.EmitTrackStems(); err != nil {
		return err
	}
	if e.Opts.EnableCutUp {
		if err := e.EmitCutUps(); err != nil {
			return err
		}
	}
	if err := e.EmitSections(true); err != nil {
		return err
	}
	if err := e.EmitSections(false); err != nil {
		return err
	}
	if e.Opts.FilterNotes {
		if err := e.EmitSectionsFiltered(); err != nil {
			return err
		}
	}
	return nil
}

// Path helpers. Every per-track subtree is named by the track number and
// its cleaned display name.

func (e *Emitter) cleanTrackName(track uint16) string {
	return CleanName(e.Root.TrackNameFor(track))
}

func (e *Emitter) tracksPath(track uint16) string {
	return filepath.Join("tracks", fmt.Sprintf("%d_%s", track, e.cleanTrackName(track)))
}

func (e *Emitter) sectionsPath(track uint16) string {
	return filepath.Join("sections", fmt.Sprintf("%d_%s", track, e.cleanTrackName(track)))
}

func (e *Emitter) cutUpsPath(track uint16) string {
	return filepath.Join("cutups", fmt.Sprintf("%d_%s", track, e.cleanTrackName(track)))
}

// writeFile creates the directory, writes the MIDI file, and guarantees
// the handle is released on every exit path.
func (e *Emitter) writeFile(relDir, filename string, f *songFile) error {
	dir := filepath.Join(e.OutDir, relDir)
	if err := fileutil.CreatePath(dir); err != nil {
		return err
	}

	e.log.Info("writing MIDI", "file", filename)
	out, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("could not create %s: %w", filename, err)
	}
	defer out.Close()

	if err := f.WriteTo(out); err != nil {
		return err
	}
	return out.Close()
}

// renderEvents writes events into a file track, rebased onto the output
// timeline. offset is zero for section files and the section's position
// for whole-track timelines. A router redirects note events to their stem
// track; a filter drops notes outside its window.
func (e *Emitter) renderEvents(f *songFile, fileTrack int, events []project.MIDIEvent, offset int64, router *NoteRouter, filter *NoteFilter) {
	for _, ev := range events {
		target := fileTrack
		if router != nil {
			if note, ok := ev.(project.NoteOn); ok {
				target = router.TrackFor(note.Note)
				f.SetTrackName(target, fmt.Sprintf("%d_%s", note.Note, e.Opts.NoteName(note.Note)))
			}
		}

		tick := int64(ev.Time()) - project.BaseTime + offset
		if tick < 0 {
			tick = 0
		}

		switch v := ev.(type) {
		case project.NoteOn:
			if filter != nil && !filter.Keep(v) {
				continue
			}
			f.addNote(target, uint32(tick), v.Channel, v.Note, v.Velocity, v.Duration)
		case project.ControlChange:
			f.add(target, uint32(tick), midi.ControlChange(v.Channel, v.Controller, v.Value))
		case project.ChannelPressure:
			f.add(target, uint32(tick), midi.AfterTouch(v.Channel, v.Pressure))
		case project.PitchWheel:
			f.add(target, uint32(tick), midi.Pitchbend(v.Channel, int16(v.Value)))
		}
	}
}

// renderTrack lays a track's sections onto the song timeline, in time
// order, picking one take for each multi-take section from choices. The
// source can contain invisible overlapping sections; any section that
// starts before the previous one ended is skipped. Returns the flattened
// take-choice vector for cut-up file naming.
func (e *Emitter) renderTrack(track uint16, fileTrack int, choices map[uint32]int, f *songFile, router *NoteRouter) string {
	cutUpText := ""
	var mostRecentEnd int64

	for _, section := range e.Root.SectionsForTrack(track) {
		start := int64(section.Record.TimeStamp)
		sectionEnd := start + section.Record.SectionLength

		if mostRecentEnd > 0 && mostRecentEnd > start {
			e.log.Warn("section overlaps the previous one, skipping",
				"record", section.Record.RecordNumber, "track", track)
			continue
		}

		offset := start - project.BaseTime
		if len(section.Contents) == 0 {
			e.renderEvents(f, fileTrack, section.Record.Events, offset, router, nil)
		} else {
			takeIdx := choices[section.Record.RecordNumber]
			combo := fmt.Sprintf("%d_%d", section.Record.RecordNumber, takeIdx)
			if cutUpText == "" {
				cutUpText = combo
			} else {
				cutUpText = cutUpText + "-" + combo
			}
			take := section.Contents[takeIdx]
			e.renderEvents(f, fileTrack, take.Record.Events, offset, router, nil)
		}

		mostRecentEnd = sectionEnd
	}
	return cutUpText
}

// zeroChoices maps every multi-take section of a track to its most recent
// take.
func (e *Emitter) zeroChoices(track uint16) map[uint32]int {
	choices := make(map[uint32]int)
	for _, section := range e.Root.MultiTakeSectionsForTrack(track) {
		choices[section.Record.RecordNumber] = 0
	}
	return choices
}

// EmitTracks writes one MIDI file per track on the song timeline.
func (e *Emitter) EmitTracks() error {
	for _, track := range e.Root.TrackSet() {
		f := newSongFile(e.Meta, 1)
		f.SetTrackName(0, e.cleanTrackName(track))
		e.renderTrack(track, 0, e.zeroChoices(track), f, nil)

		name := fmt.Sprintf("%d-%s.mid", track, e.cleanTrackName(track))
		if err := e.writeFile(e.tracksPath(track), name, f); err != nil {
			return err
		}
	}
	return nil
}

// EmitSong writes the whole song to one file, one MIDI track per project
// track.
func (e *Emitter) EmitSong() error {
	tracks := e.Root.TrackSet()
	f := newSongFile(e.Meta, len(tracks))
	for i, track := range tracks {
		f.SetTrackName(i, e.cleanTrackName(track))
		e.renderTrack(track, i, e.zeroChoices(track), f, nil)
	}
	return e.writeFile("full", fmt.Sprintf("%s.mid", e.ProjectName), f)
}

// EmitTrackStems writes one file per track with each distinct note value
// on its own MIDI track.
func (e *Emitter) EmitTrackStems() error {
	for _, track := range e.Root.TrackSet() {
		// Seed the router over the whole track first so the stem count is
		// known before the file is allocated.
		router := NewNoteRouter(e.Opts.TrackLimit)
		for _, section := range e.Root.SectionsForTrack(track) {
			router.AddNotes(e.sectionEvents(section))
		}

		f := newSongFile(e.Meta, router.TrackCount())
		e.renderTrack(track, 0, e.zeroChoices(track), f, router)

		name := fmt.Sprintf("%d-TStem-%s.mid", track, e.cleanTrackName(track))
		if err := e.writeFile(filepath.Join(e.tracksPath(track), "stems"), name, f); err != nil {
			return err
		}
	}
	return nil
}

// sectionEvents returns the events the default rendering of a section
// uses: its own for a single take, take zero otherwise.
func (e *Emitter) sectionEvents(section *project.Folder) []project.MIDIEvent {
	if len(section.Contents) == 0 {
		return section.Record.Events
	}
	return section.Contents[0].Record.Events
}

// EmitCutUps enumerates the take-choice combinations of every track with
// at least two multi-take sections and writes one file per combination,
// capped at MaxPerms per track. The last section's choice varies fastest.
func (e *Emitter) EmitCutUps() error {
	for _, track := range e.Root.TrackSet() {
		multiTakes := e.Root.MultiTakeSectionsForTrack(track)
		if len(multiTakes) < 2 {
			continue
		}

		sizes := make([]int, len(multiTakes))
		permutations := 1
		for i, section := range multiTakes {
			sizes[i] = len(section.Contents)
			permutations *= sizes[i]
		}
		e.log.Debug("cut-up permutations", "track", track, "count", permutations)

		counters := make([]int, len(sizes))
		for permCount := 0; ; permCount++ {
			if e.Opts.MaxPerms != -1 && permCount >= e.Opts.MaxPerms {
				e.log.Debug("permutation cap hit", "track", track)
				break
			}

			choices := make(map[uint32]int)
			for i, section := range multiTakes {
				choices[section.Record.RecordNumber] = counters[i]
			}

			f := newSongFile(e.Meta, 1)
			cutUpText := e.renderTrack(track, 0, choices, f, nil)
			f.SetTrackName(0, cutUpText)

			name := fmt.Sprintf("%d-CutUp-%s.mid", track, cutUpText)
			if err := e.writeFile(e.cutUpsPath(track), name, f); err != nil {
				return err
			}

			if !advance(counters, sizes) {
				break
			}
		}
	}
	return nil
}

// advance steps an odometer over the given digit sizes; the last digit is
// least significant. Returns false once every combination has been seen.
func advance(counters, sizes []int) bool {
	for i := len(counters) - 1; i >= 0; i-- {
		counters[i]++
		if counters[i] < sizes[i] {
			return true
		}
		counters[i] = 0
	}
	return false
}

// EmitSections writes one file per section, timestamps rebased so each
// section starts at tick zero. Multi-take sections produce one file per
// take. With stems set, notes are split onto per-note tracks and the
// files land under stems/ instead.
func (e *Emitter) EmitSections(stems bool) error {
	for _, track := range e.Root.TrackSet() {
		for _, section := range e.Root.SectionsForTrack(track) {
			recordNo := section.Record.RecordNumber

			if len(section.Contents) == 0 {
				label := CleanName(section.Record.Label)
				var dir, name string
				if stems {
					dir = filepath.Join(e.sectionsPath(track), "stems")
					name = fmt.Sprintf("%d-SStem%d-%s.mid", track, recordNo, label)
				} else {
					dir = e.sectionsPath(track)
					name = fmt.Sprintf("%d-S%d-%s.mid", track, recordNo, label)
				}
				if err := e.writeSection(section, label, stems, dir, name); err != nil {
					return err
				}
				continue
			}

			for _, take := range section.Contents {
				label := CleanName(take.Record.Label)
				takeDir := fmt.Sprintf("S%d_%s", recordNo, label)
				var dir, name string
				if stems {
					dir = filepath.Join(e.sectionsPath(track), "stems", "takes", takeDir)
					name = fmt.Sprintf("%d-SStem%d-%s-T%d.mid", track, recordNo, label, take.Index)
				} else {
					dir = filepath.Join(e.sectionsPath(track), "takes", takeDir)
					name = fmt.Sprintf("%d-S%d-%s-T%d.mid", track, recordNo, label, take.Index)
				}
				if err := e.writeSection(take, label, stems, dir, name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// writeSection writes one section (or take) to its own file.
func (e *Emitter) writeSection(folder *project.Folder, label string, stems bool, dir, name string) error {
	var router *NoteRouter
	trackCount := 1
	if stems {
		router = NewNoteRouter(e.Opts.TrackLimit)
		router.AddNotes(folder.Record.Events)
		trackCount = router.TrackCount()
	}

	f := newSongFile(e.Meta, trackCount)
	e.renderEvents(f, 0, folder.Record.Events, 0, router, nil)
	if !stems {
		f.SetTrackName(0, label)
	}
	return e.writeFile(dir, name, f)
}

// EmitSectionsFiltered writes, per section, a three-track file holding
// the original, the filtered rendering, and the delta, plus a standalone
// file with only the filtered track.
func (e *Emitter) EmitSectionsFiltered() error {
	for _, track := range e.Root.TrackSet() {
		for _, section := range e.Root.SectionsForTrack(track) {
			recordNo := section.Record.RecordNumber

			if len(section.Contents) == 0 {
				dir := filepath.Join(e.sectionsPath(track), "filtered")
				if err := e.writeSectionFiltered(section, track, dir, recordNo); err != nil {
					return err
				}
				continue
			}

			for _, take := range section.Contents {
				takeDir := fmt.Sprintf("S%d_%s", recordNo, CleanName(take.Record.Label))
				dir := filepath.Join(e.sectionsPath(track), "filtered", "takes", takeDir)
				if err := e.writeSectionFiltered(take, track, dir, recordNo); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (e *Emitter) writeSectionFiltered(folder *project.Folder, track uint16, dir string, recordNo uint32) error {
	label := CleanName(folder.Record.Label)
	durTicks := e.Meta.MillisecondsToTicks(e.Opts.DurationMinMS)

	keep := &NoteFilter{VelMin: e.Opts.VelocityMin, VelMax: e.Opts.VelocityMax, DurMin: durTicks}
	drop := &NoteFilter{VelMin: e.Opts.VelocityMin, VelMax: e.Opts.VelocityMax, DurMin: durTicks, Invert: true}

	deltas := newSongFile(e.Meta, 3)

	e.renderEvents(deltas, 0, folder.Record.Events, 0, nil, nil)
	deltas.SetTrackName(0, "Orig_"+label)

	e.renderEvents(deltas, 1, folder.Record.Events, 0, nil, keep)
	deltas.SetTrackName(1, "Filtered_"+label)

	filtered := newSongFile(e.Meta, 1)
	e.renderEvents(filtered, 0, folder.Record.Events, 0, nil, keep)
	filtered.SetTrackName(0, label)
	name := fmt.Sprintf("%d-S%d-%s-T%d.mid", track, recordNo, label, folder.Index)
	if err := e.writeFile(dir, name, filtered); err != nil {
		return err
	}

	e.renderEvents(deltas, 2, folder.Record.Events, 0, nil, drop)
	deltas.SetTrackName(2, "Delta_"+label)

	name = fmt.Sprintf("%d-deltas-S%d-%s-T%d.mid", track, recordNo, label, folder.Index)
	return e.writeFile(dir, name, deltas)
}
