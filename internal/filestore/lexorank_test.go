package filestore

import "testing"

func TestNextRank(t *testing.T) {
	tests := []struct {
		prev string
		want string
	}{
		{"", "U"},
		{"U", "V"},
		{"y", "z"},
		{"z", "zU"},
		{"zU", "zV"},
	}
	for _, tt := range tests {
		if got := nextRank(tt.prev); got != tt.want {
			t.Errorf("nextRank(%q) = %q, want %q", tt.prev, got, tt.want)
		}
	}
}

func TestNextRank_StrictlyIncreasing(t *testing.T) {
	rank := ""
	for i := 0; i < 500; i++ {
		next := nextRank(rank)
		if next <= rank {
			t.Fatalf("nextRank(%q) = %q is not greater", rank, next)
		}
		rank = next
	}
}
