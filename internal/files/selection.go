package files

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// ReadPaths loads files from the local filesystem, naming each by its base name.
func ReadPaths(paths ...string) ([]File, error) {
	result := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file %s: %w", p, err)
		}
		result = append(result, File{Name: filepath.Base(p), Content: data})
	}
	return result, nil
}

// ReadMultipart loads every file uploaded under field of a multipart form.
func ReadMultipart(form *multipart.Form, field string) ([]File, error) {
	if form == nil {
		return nil, fmt.Errorf("multipart form is nil")
	}
	headers := form.File[field]
	result := make([]File, 0, len(headers))
	for _, header := range headers {
		f, err := readHeader(header)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, nil
}

func readHeader(header *multipart.FileHeader) (File, error) {
	src, err := header.Open()
	if err != nil {
		return File{}, fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
	}
	defer func() {
		_ = src.Close()
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		return File{}, fmt.Errorf("failed to read uploaded file %s: %w", header.Filename, err)
	}
	return File{Name: filepath.Base(header.Filename), Content: data}, nil
}

// WriteAll writes the collection into dir, creating it if needed.
func WriteAll(dir string, collection []File) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	for _, f := range collection {
		if err := ValidateName(f.Name); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, f.Name), f.Content, 0o644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", f.Name, err)
		}
	}
	return nil
}
