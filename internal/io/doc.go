// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Atomic file and JSON writing
//   - Directory creation
//   - Thumbnail resizing and JPEG conversion
//
// # File Operations
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/file.json", []byte("{}"))
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Image Processing
//
// The ImageService prepares thumbnails, which are always stored as JPEG:
//
//	svc := ioutils.NewImageService()
//
//	// Resize image to fit within 1280x1280
//	resized, _ := svc.ResizeImage(ctx, imageData, 1280, 1280)
//
//	// Convert WebP or PNG to JPEG
//	jpeg, _ := svc.ConvertToJPEG(ctx, webpData)
package ioutils
