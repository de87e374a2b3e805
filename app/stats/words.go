// Package stats computes descriptive statistics over job postings: word frequency of titles,
// word cloud weights and the number of postings per publish date.
package stats

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// WordCount is a word with number of occurrences
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// defaultStopWords are connectives excluded from the ranking
var defaultStopWords = []string{"de", "y", "en", "para", "con", "el", "la"}

// StopWords is a set of lower-cased words excluded from word frequency
type StopWords map[string]struct{}

// DefaultStopWords returns a new set with the built-in stop words
func DefaultStopWords() StopWords {
	res := StopWords{}
	res.Add(defaultStopWords...)
	return res
}

// LoadStopWords returns default stop words extended by the list from yaml file.
// The file has a single key, i.e. "stopwords: [a, los, las]". Empty path returns defaults.
func LoadStopWords(path string) (StopWords, error) {
	res := DefaultStopWords()
	if path == "" {
		return res, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path from cli options
	if err != nil {
		return nil, fmt.Errorf("failed to read stop words file %s: %w", path, err)
	}

	var f struct {
		StopWords []string `yaml:"stopwords"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse stop words file %s: %w", path, err)
	}
	res.Add(f.StopWords...)
	return res, nil
}

// Add puts words to the set, case-insensitive
func (s StopWords) Add(words ...string) {
	lower := cases.Lower(language.Spanish)
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			s[lower.String(w)] = struct{}{}
		}
	}
}

// Has checks if the word is a stop word, case-insensitive
func (s StopWords) Has(word string) bool {
	_, ok := s[cases.Lower(language.Spanish).String(word)]
	return ok
}

// Tokenize lower-cases titles and splits them on whitespace
func Tokenize(titles []string) []string {
	lower := cases.Lower(language.Spanish) // caser is stateful, one per call
	res := []string{}
	for _, title := range titles {
		res = append(res, strings.Fields(lower.String(title))...)
	}
	return res
}

// WordFrequency counts tokens and drops stop words. The result is sorted by count,
// ties are ordered alphabetically.
func WordFrequency(tokens []string, stop StopWords) []WordCount {
	counts := map[string]int{}
	for _, t := range tokens {
		counts[t]++
	}

	res := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		if stop.Has(w) {
			continue
		}
		res = append(res, WordCount{Word: w, Count: c})
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Count != res[j].Count {
			return res[i].Count > res[j].Count
		}
		return res[i].Word < res[j].Word
	})
	return res
}

// TopWords returns up to n most frequent non-stop words of titles
func TopWords(titles []string, n int, stop StopWords) []WordCount {
	freq := WordFrequency(Tokenize(titles), stop)
	if n >= 0 && len(freq) > n {
		freq = freq[:n]
	}
	return freq
}
