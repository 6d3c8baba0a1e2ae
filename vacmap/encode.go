package vacmap

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// Upscale enlarges the image by an integer factor using Catmull-Rom
// resampling, which keeps the cell boundaries smooth instead of blocky.
// Factors below 2 return the input unchanged.
func Upscale(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// EncodePNG serializes the image to PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeBase64 returns the standard base64 encoding of raw PNG bytes,
// as embedded in the sidecar file.
func EncodeBase64(pngData []byte) string {
	return base64.StdEncoding.EncodeToString(pngData)
}

// SidecarPath derives the base64 sidecar path from a PNG output path:
// map.png becomes map.base64.txt.
func SidecarPath(pngPath string) string {
	return strings.TrimSuffix(pngPath, ".png") + ".base64.txt"
}
