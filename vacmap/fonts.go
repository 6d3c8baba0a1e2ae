package vacmap

import (
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// DefaultFontPaths are tried in order when loading the label face.
var DefaultFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
}

// LoadFace loads the first parseable font from paths at the given point
// size. When none of the paths yields a face, the built-in 7x13 bitmap
// face is returned so label drawing always has something to work with.
func LoadFace(paths []string, size float64) font.Face {
	if len(paths) == 0 {
		paths = DefaultFontPaths
	}
	if size <= 0 {
		size = 13
	}
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		ft, err := opentype.Parse(raw)
		if err != nil {
			continue
		}
		face, err := opentype.NewFace(ft, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			continue
		}
		return face
	}
	return basicfont.Face7x13
}
