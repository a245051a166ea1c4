package crawler

import (
	"fmt"
	"strings"
	"testing"
)

func TestSplitSentencesKeepsTerminators(t *testing.T) {
	text := "First sentence. Second one! Third?? Fourth has no terminator"
	got := splitSentences(text)

	want := []string{"First sentence.", "Second one!", "Third??", "Fourth has no terminator"}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitSentencesAbbreviationWithoutSpace(t *testing.T) {
	// A period not followed by whitespace does not end a sentence
	got := splitSentences("Visit example.com for details. Thanks.")
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2: %v", len(got), got)
	}
	if got[0] != "Visit example.com for details." {
		t.Errorf("got %q", got[0])
	}
}

func TestChunkTextRejoinsToOriginal(t *testing.T) {
	var sentences []string
	for i := 0; i < 40; i++ {
		sentences = append(sentences, fmt.Sprintf("This is sentence number %d of the test corpus.", i))
	}
	text := strings.Join(sentences, " ")

	chunks := chunkText(text, 200)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	if rejoined := strings.Join(chunks, " "); rejoined != text {
		t.Errorf("rejoined chunks differ from input:\ngot  %q\nwant %q", rejoined, text)
	}
}

func TestChunkTextRespectsMaxLength(t *testing.T) {
	var sentences []string
	for i := 0; i < 30; i++ {
		sentences = append(sentences, fmt.Sprintf("Sentence %d is short.", i))
	}
	chunks := chunkText(strings.Join(sentences, " "), 100)

	for i, chunk := range chunks {
		if len(chunk) > 100 {
			t.Errorf("chunk %d has length %d, over the limit: %q", i, len(chunk), chunk)
		}
	}
}

func TestChunkTextOversizedSentence(t *testing.T) {
	long := strings.Repeat("word ", 60) + "end."
	text := "Short lead-in. " + long + " Short tail."

	chunks := chunkText(text, 50)

	found := false
	for _, chunk := range chunks {
		if strings.Contains(chunk, "end.") && len(chunk) > 50 {
			found = true
			if strings.Contains(chunk, "lead-in") || strings.Contains(chunk, "tail") {
				t.Errorf("oversized sentence should be its own chunk, got %q", chunk)
			}
		}
	}
	if !found {
		t.Fatalf("oversized sentence missing from chunks: %v", chunks)
	}
}

func TestChunkTextEmpty(t *testing.T) {
	if chunks := chunkText("", 100); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %v", chunks)
	}
	if chunks := chunkText("   \n\t  ", 100); len(chunks) != 0 {
		t.Errorf("expected no chunks for whitespace input, got %v", chunks)
	}
}
