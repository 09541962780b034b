package imaging

import (
	"errors"
	"testing"
)

// oversizedGIF is a GIF header declaring a 65535x65535 logical screen.
var oversizedGIF = []byte{'G', 'I', 'F', '8', '9', 'a', 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00}

func TestCheckSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
		tooBig  bool
	}{
		{"small", 640, 480, false, false},
		{"exactly the limit", MaxPixels, 1, false, false},
		{"zero width", 0, 10, true, false},
		{"negative height", 10, -1, true, false},
		{"area over limit", 20000, 20000, true, true},
		{"huge sides", 3000000000, 3000000000, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSize(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckSize(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
			if errors.Is(err, ErrTooLarge) != tt.tooBig {
				t.Errorf("CheckSize(%d, %d) = %v, ErrTooLarge expected: %v", tt.w, tt.h, err, tt.tooBig)
			}
		})
	}
}

func TestToPixels_Saturates(t *testing.T) {
	if got := toPixels(1e300); got != MaxPixels+1 {
		t.Errorf("toPixels(1e300) = %d, want %d", got, MaxPixels+1)
	}
	if got := toPixels(0.2); got != 1 {
		t.Errorf("toPixels(0.2) = %d, want 1", got)
	}
}

func TestDecode_RejectsOversizedSVG(t *testing.T) {
	docs := []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="3000000000" height="3000000000"></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1e300 1e300"></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg" width="20000" viewBox="0 0 1 1"></svg>`,
	}
	for _, doc := range docs {
		if _, _, err := Decode([]byte(doc)); !errors.Is(err, ErrTooLarge) {
			t.Errorf("Decode(%s) error = %v, want ErrTooLarge", doc, err)
		}
		if _, _, err := DecodeConfig([]byte(doc)); !errors.Is(err, ErrTooLarge) {
			t.Errorf("DecodeConfig(%s) error = %v, want ErrTooLarge", doc, err)
		}
	}
}

func TestDecode_RejectsOversizedRasterBeforeDecoding(t *testing.T) {
	_, _, err := Decode(oversizedGIF)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestThumbnail_RejectsOversizedInput(t *testing.T) {
	if _, err := Thumbnail(oversizedGIF, 160); !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestResizeAndExtent_RejectOversizedTargets(t *testing.T) {
	src := createTestImage(4, 4)
	if _, err := Resize(src, 3000000000, 3000000000); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Resize error = %v, want ErrTooLarge", err)
	}
	if _, err := Extent(src, 20000, 20000, nil); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Extent error = %v, want ErrTooLarge", err)
	}
}

func TestScaledSize_SaturatesHugeGeometry(t *testing.T) {
	g, err := ParseGeometry("3000000000x3000000000!")
	if err != nil {
		t.Fatalf("ParseGeometry error: %v", err)
	}
	w, h := g.ScaledSize(4, 4)
	if err := CheckSize(w, h); !errors.Is(err, ErrTooLarge) {
		t.Errorf("ScaledSize = %dx%d, expected to exceed the limit", w, h)
	}
}
