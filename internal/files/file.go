package files

import (
	"fmt"
	"strings"
)

// File is a named, opaque blob handed to or produced by an execution.
type File struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
}

// Size returns the content length in bytes
func (f File) Size() int {
	return len(f.Content)
}

// ValidateName rejects names that cannot be used as a flat file name
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name: %q", name)
	}
	return nil
}

// Validate checks every name in the collection and reports duplicates
func Validate(collection []File) error {
	seen := make(map[string]bool, len(collection))
	for i, f := range collection {
		if err := ValidateName(f.Name); err != nil {
			return fmt.Errorf("file at index %d: %w", i, err)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate file name: %s", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// Find returns the file with the given name
func Find(collection []File, name string) (File, bool) {
	for _, f := range collection {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// Names lists the names of the collection in order
func Names(collection []File) []string {
	names := make([]string, len(collection))
	for i, f := range collection {
		names[i] = f.Name
	}
	return names
}
