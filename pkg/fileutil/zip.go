package fileutil

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CompressFolder writes a zip archive of everything under folder to
// archivePath. Entry names are relative to folder, using forward slashes.
func CompressFolder(folder, archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("could not create archive %s: %w", archivePath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	err = filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(folder, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(strings.ReplaceAll(rel, string(filepath.Separator), "/"))
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer in.Close()
		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("could not archive %s: %w", folder, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("could not finalise archive %s: %w", archivePath, err)
	}
	return out.Close()
}
