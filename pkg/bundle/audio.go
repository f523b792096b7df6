package bundle

import (
	"os"
	"path/filepath"

	"github.com/bhostetler18/GBExtractorPublic/pkg/fileutil"
)

// Audio asset locations inside a bundle: direct and imported recordings,
// sampler instruments, and frozen track renders.
var audioSources = []struct {
	src  []string
	dest string
}{
	{src: []string{"Media"}, dest: "media"},
	{src: []string{"Media", "Sampler", "Sampler Files"}, dest: "sampled"},
	{src: []string{"Freeze Files.nosync"}, dest: "frozen"},
}

// ExtractAudio copies the bundle's audio assets into <outDir>/audio and,
// when compress is set, archives the result as <outDir>/audio.zip.
// Sources that do not exist are skipped silently.
func ExtractAudio(bundlePath, outDir string, compress bool) error {
	audioDir := filepath.Join(outDir, "audio")

	for _, s := range audioSources {
		src := filepath.Join(append([]string{bundlePath}, s.src...)...)
		if err := fileutil.CopyFiles(src, filepath.Join(audioDir, s.dest)); err != nil {
			return err
		}
	}

	if compress {
		if _, err := os.Stat(audioDir); err == nil {
			return fileutil.CompressFolder(audioDir, filepath.Join(outDir, "audio.zip"))
		}
	}
	return nil
}
