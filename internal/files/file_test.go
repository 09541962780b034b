package files

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain", input: "a.png", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "  ", wantErr: true},
		{name: "slash", input: "dir/a.png", wantErr: true},
		{name: "backslash", input: `dir\a.png`, wantErr: true},
		{name: "dotdot", input: "..", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Duplicate(t *testing.T) {
	err := Validate([]File{{Name: "a.png"}, {Name: "a.png"}})
	if err == nil {
		t.Fatal("expected error for duplicate names")
	}
}

func TestFindAndNames(t *testing.T) {
	collection := []File{{Name: "a.png", Content: []byte{1}}, {Name: "b.png", Content: []byte{2, 3}}}

	f, ok := Find(collection, "b.png")
	if !ok || f.Size() != 2 {
		t.Fatalf("Find(b.png) = %+v, %v", f, ok)
	}
	if _, ok := Find(collection, "c.png"); ok {
		t.Error("expected c.png to be missing")
	}

	names := Names(collection)
	if len(names) != 2 || names[0] != "a.png" || names[1] != "b.png" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestReadPathsAndWriteAll(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	got, err := ReadPaths(src)
	if err != nil {
		t.Fatalf("ReadPaths error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "in.png" || string(got[0].Content) != "data" {
		t.Fatalf("unexpected files: %+v", got)
	}

	out := filepath.Join(dir, "out")
	if err := WriteAll(out, got); err != nil {
		t.Fatalf("WriteAll error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "in.png"))
	if err != nil || string(data) != "data" {
		t.Fatalf("written file = %q, %v", data, err)
	}

	if _, err := ReadPaths(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing path")
	}
}

func TestReadMultipart(t *testing.T) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, name := range []string{"a.png", "b.png"} {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile error: %v", err)
		}
		_, _ = part.Write([]byte(name))
	}
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm error: %v", err)
	}

	got, err := ReadMultipart(req.MultipartForm, "files")
	if err != nil {
		t.Fatalf("ReadMultipart error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a.png" || string(got[1].Content) != "b.png" {
		t.Fatalf("unexpected files: %+v", got)
	}
}
