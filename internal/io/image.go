package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// ImageService provides image processing operations for episode thumbnails.
//
// ImageService is used to:
//   - Resize thumbnails to fit maximum dimensions
//   - Convert thumbnails to JPEG, since they are always saved as thumbnail.jpg
//
// Example usage:
//
//	svc := NewImageService()
//	jpg, err := svc.NormalizeThumbnail(ctx, webpData, 1280)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved. Images already within bounds keep their
// size but are re-encoded as JPEG.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 1920x1080 thumbnail becomes 1280x720
//	resized, err := svc.ResizeImage(ctx, data, 1280, 1280)
func (s *ImageService) ResizeImage(ctx context.Context, data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Calculate new dimensions maintaining aspect ratio
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodeJPEG(dst)
}

// ConvertToJPEG converts an image to JPEG format.
//
// Thumbnails may be served as WebP, PNG, GIF or JPEG. JPEG input is
// re-encoded, which may slightly change file size.
func (s *ImageService) ConvertToJPEG(ctx context.Context, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

// NormalizeThumbnail returns data as JPEG, resized to fit maxSize x maxSize
// when maxSize is positive.
//
// JPEG input that needs no resizing is returned unchanged.
func (s *ImageService) NormalizeThumbnail(ctx context.Context, data []byte, maxSize int) ([]byte, error) {
	if maxSize > 0 {
		return s.ResizeImage(ctx, data, maxSize, maxSize)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if format == "jpeg" {
		return data, nil
	}
	return s.ConvertToJPEG(ctx, data)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
