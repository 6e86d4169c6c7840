package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 1000, 200)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("got %v, want single unchanged chunk", chunks)
	}
}

func TestSplitTextChunkSizeAndOverlap(t *testing.T) {
	text := strings.Repeat("a", 2500)
	chunks := SplitText(text, 1000, 200)

	// step = 800: chunks start at 0, 800, 1600, 2400
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	for i, c := range chunks[:3] {
		if len(c) != 1000 {
			t.Errorf("chunk %d has length %d, want 1000", i, len(c))
		}
	}
	if len(chunks[3]) != 100 {
		t.Errorf("last chunk has length %d, want 100", len(chunks[3]))
	}
}

func TestSplitTextOverlapPreservesBoundary(t *testing.T) {
	text := strings.Repeat("x", 150) + strings.Repeat("y", 150)
	chunks := SplitText(text, 200, 50)

	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	// Second chunk starts at offset 150: the last 50 chars of chunk one
	// reappear at its start.
	if !strings.HasPrefix(chunks[1], chunks[0][150:]) {
		t.Error("overlap region not preserved across the boundary")
	}
}

func TestSplitTextOverlapLargerThanChunk(t *testing.T) {
	text := strings.Repeat("z", 50)
	chunks := SplitText(text, 10, 20)

	// Degenerate overlap falls back to non-overlapping chunks
	if len(chunks) != 5 {
		t.Fatalf("got %d chunks, want 5", len(chunks))
	}
	var rebuilt strings.Builder
	for _, c := range chunks {
		rebuilt.WriteString(c)
	}
	if rebuilt.String() != text {
		t.Error("non-overlapping fallback lost data")
	}
}

func TestSplitTextMultibyte(t *testing.T) {
	text := strings.Repeat("日", 30)
	chunks := SplitText(text, 10, 2)

	for i, c := range chunks {
		if !strings.HasPrefix(c, "日") {
			t.Errorf("chunk %d starts mid-rune: %q", i, c)
		}
	}
}
