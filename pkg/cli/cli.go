// Package cli parses command line arguments and environment variables
// into the extractor configuration.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Config holds the settings parsed from command line arguments.
type Config struct {
	BundlePath string // path to the project bundle directory

	// Cut-up mode: dump every permutation of takes for each track, up to
	// MaxPerms permutations per track (-1 for no limit). The number of
	// permutations is the product of all the take counts, so an
	// unlimited run can produce thousands of files.
	EnableCutUp bool
	MaxPerms    int

	// Note filter: recordings from MIDI drum kits or guitars may contain
	// artefacts appearing as very low velocity or very short notes.
	FilterNotes bool
	VelocityMin int
	VelocityMax int
	DurationMin int // milliseconds

	// Audio extraction.
	ExtractAudio  bool
	CompressAudio bool

	// Pitch bend override, for instruments that do not scale bend values
	// correctly when saved.
	OverridePitchBend   bool
	PitchBendMultiplier int

	// Track split.
	TrackLimit   int
	RenameTracks bool

	// Diagnostics.
	LogLevel    string
	Debug       bool
	WriteToFile bool // redirect log output to a file in the output directory
	DumpFile    bool // dump the decoded binary as hex after processing

	ShowHelp bool
}

// ParseArgs parses command line arguments into a Config.
func ParseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("gbextract", flag.ContinueOnError)

	config := &Config{}

	fs.BoolVar(&config.EnableCutUp, "cutup", false, "emit take permutation files")
	fs.IntVar(&config.MaxPerms, "max-perms", 24, "permutation cap per track, -1 for no limit")
	fs.BoolVar(&config.FilterNotes, "filter-notes", false, "emit filtered section files")
	fs.IntVar(&config.VelocityMin, "velocity-min", 20, "note filter velocity floor")
	fs.IntVar(&config.VelocityMax, "velocity-max", 127, "note filter velocity ceiling")
	fs.IntVar(&config.DurationMin, "duration-min", 40, "note filter duration floor in milliseconds")
	fs.BoolVar(&config.ExtractAudio, "extract-audio", false, "copy audio assets into the output")
	fs.BoolVar(&config.CompressAudio, "compress-audio", true, "zip the extracted audio")
	fs.BoolVar(&config.OverridePitchBend, "override-pitch-bend", false, "multiply pitch bend values")
	fs.IntVar(&config.PitchBendMultiplier, "pitch-bend-multiplier", 24, "pitch bend multiplier")
	fs.IntVar(&config.TrackLimit, "track-limit", 16, "stem tracks per file, 1-128")
	fs.BoolVar(&config.RenameTracks, "rename-tracks", true, "name stem tracks from the drum map")
	fs.StringVar(&config.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogLevel, "l", "info", "log level (shorthand)")
	fs.BoolVar(&config.Debug, "debug", false, "shorthand for -log-level debug")
	fs.BoolVar(&config.WriteToFile, "log-to-file", false, "write the log into the output directory")
	fs.BoolVar(&config.DumpFile, "dump-file", false, "hex dump the decoded binary after processing")
	fs.BoolVar(&config.ShowHelp, "help", false, "show help")
	fs.BoolVar(&config.ShowHelp, "h", false, "show help (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Environment fallback; command line flags win.
	logLevelSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "log-level" || f.Name == "l" {
			logLevelSet = true
		}
	})
	if !logLevelSet {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}
	if config.Debug {
		config.LogLevel = "debug"
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if config.MaxPerms < -1 {
		return nil, fmt.Errorf("max-perms must be -1 or greater, got %d", config.MaxPerms)
	}
	if config.VelocityMin < 0 || config.VelocityMin > 127 ||
		config.VelocityMax < 0 || config.VelocityMax > 127 {
		return nil, fmt.Errorf("velocity bounds must be within 0-127, got %d and %d",
			config.VelocityMin, config.VelocityMax)
	}
	if config.VelocityMin > config.VelocityMax {
		return nil, fmt.Errorf("velocity-min %d exceeds velocity-max %d",
			config.VelocityMin, config.VelocityMax)
	}
	if config.DurationMin < 0 {
		return nil, fmt.Errorf("duration-min must be non-negative, got %d", config.DurationMin)
	}
	if config.TrackLimit < 1 || config.TrackLimit > 128 {
		return nil, fmt.Errorf("track-limit must be within 1-128, got %d", config.TrackLimit)
	}

	if fs.NArg() > 0 {
		config.BundlePath = fs.Arg(0)
	}

	return config, nil
}

// PrintHelp prints the usage message.
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `gbextract - project bundle MIDI extractor

Usage:
  gbextract [options] <bundle-path>

Arguments:
  bundle-path   path to the project .band bundle directory

Options:
  --cutup                        emit every permutation of takes per track
  --max-perms <n>                permutation cap per track, -1 for no limit (default 24)
  --filter-notes                 emit filtered section files
  --velocity-min <0-127>         note filter velocity floor (default 20)
  --velocity-max <0-127>         note filter velocity ceiling (default 127)
  --duration-min <ms>            note filter duration floor (default 40)
  --extract-audio                copy audio assets into the output
  --compress-audio               zip the extracted audio (default true)
  --override-pitch-bend          multiply pitch bend values
  --pitch-bend-multiplier <n>    the multiplier (default 24)
  --track-limit <1-128>          stem tracks per file (default 16)
  --rename-tracks                name stem tracks from the drum map (default true)
  -l, --log-level <level>        log level: debug, info, warn, error (default info)
  --debug                        shorthand for --log-level debug
  --log-to-file                  write the log into the output directory
  --dump-file                    hex dump the decoded binary after processing
  -h, --help                     show this help

Environment Variables:
  LOG_LEVEL=<level>              log level

Examples:
  gbextract ~/Music/MySong.band
  gbextract --cutup --max-perms 10 ~/Music/MySong.band
  gbextract --filter-notes --velocity-min 30 ~/Music/MySong.band
`)
}
