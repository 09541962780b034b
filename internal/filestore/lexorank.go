package filestore

const (
	// Alphabet bounds used to compute ranks lexicographically.
	minChar = '0'
	maxChar = 'z'
	// First rank handed out.
	midChar = 'U'
)

// nextRank returns a rank that sorts strictly after prev. The last character
// is bumped while there is room; otherwise midChar is appended, so sequential
// inserts grow the rank by one character per (maxChar-midChar) inserts.
func nextRank(prev string) string {
	if prev == "" {
		return string(rune(midChar))
	}
	last := prev[len(prev)-1]
	if last < minChar || last >= maxChar {
		return prev + string(rune(midChar))
	}
	return prev[:len(prev)-1] + string(rune(last+1))
}
