package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsNonEmptyAndClean(t *testing.T) {
	words := Default()
	if len(words) < 100 {
		t.Fatalf("expected embedded list with at least 100 words, got %d", len(words))
	}
	filter := FilterForLang("en")
	for _, w := range words {
		if !filter(w) {
			t.Fatalf("embedded word %q fails english filter", w)
		}
	}
}

func TestLoadWordsSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("cat\n\n  dog  \n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if len(words) != 2 || words[0] != "cat" || words[1] != "dog" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadWordsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected error for empty word list")
	}
}
