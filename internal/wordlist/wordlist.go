// Package wordlist loads word lists from files or the embedded dictionary.
package wordlist

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed words_en.txt
var defaultEnglish string

// Default returns the embedded English dictionary.
func Default() []string {
	words, err := ParseWords(strings.NewReader(defaultEnglish))
	if err != nil {
		panic(fmt.Sprintf("embedded word list: %v", err))
	}
	return Filter(words, FilterForLang("en"))
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return ParseWords(file)
}

// ParseWords reads one word per line, skipping blank lines.
func ParseWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
