package ai

import (
	"context"
	"math"
	"testing"
)

func TestHashingEmbedderDeterministic(t *testing.T) {
	e := NewHashingEmbedder(768)

	a, err := e.Embed(context.Background(), []string{"the quick brown fox"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	b, err := e.Embed(context.Background(), []string{"the quick brown fox"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}

	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatalf("dimension %d differs between runs: %v vs %v", i, a[0][i], b[0][i])
		}
	}
}

func TestHashingEmbedderNormalized(t *testing.T) {
	e := NewHashingEmbedder(768)

	vec, err := Embed1(context.Background(), e, "some moderately long text with several distinct words")
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vec) != 768 {
		t.Fatalf("got %d dimensions, want 768", len(vec))
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-5 {
		t.Errorf("norm = %v, want 1.0", math.Sqrt(norm))
	}
}

func TestHashingEmbedderEmptyInput(t *testing.T) {
	e := NewHashingEmbedder(64)

	for _, text := range []string{"", "   ", "!!! ... ???"} {
		vec, err := Embed1(context.Background(), e, text)
		if err != nil {
			t.Fatalf("embed(%q) failed: %v", text, err)
		}
		for i, v := range vec {
			if v != 0 {
				t.Errorf("embed(%q): dimension %d is %v, want zero vector", text, i, v)
				break
			}
		}
	}
}

func TestHashingEmbedderCaseAndPunctuationInsensitive(t *testing.T) {
	e := NewHashingEmbedder(768)

	a, _ := Embed1(context.Background(), e, "Hello, World!")
	b, _ := Embed1(context.Background(), e, "hello world")

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("dimension %d differs for equivalent inputs", i)
		}
	}
}

func TestEmbedPreservesOrderAndCardinality(t *testing.T) {
	e := NewHashingEmbedder(768)

	texts := []string{"alpha", "beta", "gamma"}
	vecs, err := e.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("got %d vectors for %d texts", len(vecs), len(texts))
	}

	solo, _ := Embed1(context.Background(), e, "beta")
	for i := range solo {
		if vecs[1][i] != solo[i] {
			t.Fatalf("batch embedding of %q differs from solo embedding", "beta")
		}
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Hello, World! It's test_case #42.")
	want := []string{"hello", "world", "its", "test_case", "42"}

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
