package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AllowedImageTypes defines the allowed image file extensions
var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ValidateImageFile checks if the uploaded file is a valid listing photo
func ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > MaxFileSize {
		return BadRequestError("File size exceeds 5MB limit", nil)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !AllowedImageTypes[ext] {
		return BadRequestError("Invalid file type. Allowed types: jpg, jpeg, png, webp", nil)
	}

	return nil
}

// SaveUploadedFile saves an uploaded listing photo and returns its relative path
func SaveUploadedFile(file *multipart.FileHeader, uploadDir string) (string, error) {
	if err := ValidateImageFile(file); err != nil {
		return "", err
	}

	ext := filepath.Ext(file.Filename)
	filename := uuid.New().String() + ext
	target := filepath.Join(uploadDir, filename)

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", InternalError("Failed to create uploads directory", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", InternalError("Failed to open uploaded file", err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return "", InternalError("Failed to create file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", InternalError("Failed to save file", err)
	}

	return target, nil
}
