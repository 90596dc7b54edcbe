package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/rasterlab/go-convert/images"
)

// ImageFile represents an image file loaded and probed for batch conversion.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Image carries the raw bytes plus the probed format and natural dimensions.
	images.Image
}

// LoadDirectoryImageFiles reads all image files from a directory, sorted by
// filename. Only extensions the conversion pipeline can decode are picked up,
// and each file's header is probed so callers get format and dimensions up
// front.
//
// Arguments:
// - dir: Directory path containing image files.
//
// Returns:
// - []ImageFile: Slice of ImageFile, each carrying the raw bytes and probed metadata.
// - error: Error if reading fails or a picked-up file is not a decodable image.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var loaded []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(file.Name()))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
			imgPath := filepath.Join(dir, file.Name())
			data, readErr := os.ReadFile(imgPath)
			if readErr != nil {
				return nil, readErr
			}
			img, probeErr := images.Inspect(data)
			if probeErr != nil {
				return nil, errors.Wrapf(probeErr, "probe %s", imgPath)
			}
			loaded = append(loaded, ImageFile{
				Path:  imgPath,
				Image: img,
			})
		}
	}

	sort.Slice(loaded, func(i, j int) bool {
		return loaded[i].Path < loaded[j].Path
	})

	return loaded, nil
}
