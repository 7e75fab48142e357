package imagekit

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
)

const jpegQuality = 70

// recompressJPEG re-encodes a decodable image as JPEG at a fixed quality to
// bound the upload payload. Bytes that do not decode as an image pass
// through untouched.
func recompressJPEG(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return data
	}
	return buf.Bytes()
}
