package model

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"telegram-group-guardian/internal/domain"
)

// DefaultBannedWords is the built-in moderation list.
var DefaultBannedWords = []string{"salak", "aptal", "orospu", "sikerim", "amk", "yarrak"}

// Wordlist holds normalized banned terms. Matching is lowercase substring
// containment: a term occurring inside a longer word still matches.
type Wordlist struct {
	words []string
}

func NewWordlist(words []string) (*Wordlist, error) {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, domain.ErrEmptyInput
	}
	return &Wordlist{words: out}, nil
}

// LoadWordlist reads one term per line from path; blank lines and lines
// starting with '#' are skipped. An empty path yields the default list.
func LoadWordlist(path string) (*Wordlist, error) {
	if path == "" {
		return NewWordlist(DefaultBannedWords)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}
	return NewWordlist(words)
}

// Match reports the first banned term contained in text.
func (w *Wordlist) Match(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, term := range w.words {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}

func (w *Wordlist) Size() int { return len(w.words) }
