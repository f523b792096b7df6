package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bhostetler18/GBExtractorPublic/pkg/bundle"
	"github.com/bhostetler18/GBExtractorPublic/pkg/cli"
	"github.com/bhostetler18/GBExtractorPublic/pkg/logger"
	"github.com/bhostetler18/GBExtractorPublic/pkg/midiout"
	"github.com/bhostetler18/GBExtractorPublic/pkg/project"
)

// quitWithError prints a single error line and exits with status 1.
// Every fatal condition funnels through here so scripted callers get one
// line on stdout and a non-zero status, nothing else.
func quitWithError(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}

func main() {
	config, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		quitWithError("ERROR: %v", err)
	}
	if config.ShowHelp {
		cli.PrintHelp()
		return
	}
	if config.BundlePath == "" {
		quitWithError("ERROR: Expects a single argument which is the path to the project bundle directory")
	}

	projectName := bundle.ProjectName(config.BundlePath)
	outDir := fmt.Sprintf("%s_%s", time.Now().Format("20060102-150405"), projectName)
	if err := os.Mkdir(outDir, 0o755); err != nil {
		quitWithError("ERROR: Could not create directory %s", outDir)
	}

	logWriter := io.Writer(os.Stdout)
	if config.WriteToFile {
		logFile, err := os.Create(filepath.Join(outDir, "GB_Extract_Log.txt"))
		if err != nil {
			quitWithError("ERROR: Could not create log file: %v", err)
		}
		defer logFile.Close()
		logWriter = logFile
	}
	if err := logger.InitLogger(config.LogLevel, logWriter); err != nil {
		quitWithError("ERROR: %v", err)
	}

	data, err := bundle.LoadProjectData(config.BundlePath)
	if err != nil {
		quitWithError("ERROR: %v", err)
	}

	// Keep the decoded payload next to the MIDI output; it is the input
	// for any manual digging when a project does not parse.
	if err := os.WriteFile(filepath.Join(outDir, "decoded.bin"), data, 0o644); err != nil {
		quitWithError("ERROR: Could not write decoded data: %v", err)
	}

	ctx, err := project.Parse(data, project.DecodeOptions{
		OverridePitchBend:   config.OverridePitchBend,
		PitchBendMultiplier: config.PitchBendMultiplier,
	})
	if err != nil {
		quitWithError("ERROR: %v", err)
	}

	if config.ExtractAudio {
		if err := bundle.ExtractAudio(config.BundlePath, outDir, config.CompressAudio); err != nil {
			quitWithError("ERROR: %v", err)
		}
	}

	trackMap := midiout.DefaultTrackMap
	emitter := midiout.NewEmitter(ctx.Root, ctx.Meta, outDir, projectName, midiout.Options{
		EnableCutUp:   config.EnableCutUp,
		MaxPerms:      config.MaxPerms,
		FilterNotes:   config.FilterNotes,
		VelocityMin:   uint8(config.VelocityMin),
		VelocityMax:   uint8(config.VelocityMax),
		DurationMinMS: float64(config.DurationMin),
		TrackLimit:    config.TrackLimit,
		RenameTracks:  config.RenameTracks,
		TrackMap:      trackMap,
	})
	if err := emitter.Emit(); err != nil {
		quitWithError("ERROR: %v", err)
	}

	if config.DumpFile {
		fmt.Fprint(logWriter, project.HexDump(data))
	}

	fmt.Println("File processing complete")
}
