package frameimage

import (
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/tauraamui/brawextract/pkg/log"
	"github.com/tauraamui/xerror"
)

const DefaultQuality = 95

// WriteJPEG encodes img to path, creating any missing parent directories.
// A failed encode leaves no file behind.
func WriteJPEG(fs afero.Fs, path string, img image.Image, quality int) error {
	if quality <= 0 {
		quality = DefaultQuality
	}

	if err := ensureDirectoryPathExists(fs, filepath.Dir(path)); err != nil {
		return xerror.Errorf("unable to create output directory: %w", err)
	}

	file, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return xerror.Errorf("unable to create output file: %w", err)
	}

	if err := imaging.Encode(file, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		file.Close()
		if rmErr := fs.Remove(path); rmErr != nil {
			log.Error("unable to remove partial output %s: %v", path, rmErr)
		}
		return xerror.Errorf("unable to encode JPEG: %w", err)
	}

	if err := file.Close(); err != nil {
		return xerror.Errorf("unable to write output file: %s: %w", path, err)
	}
	log.Info("wrote frame to %s", path)
	return nil
}

func ensureDirectoryPathExists(fs afero.Fs, path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}
