package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DictionaryEntry is one line of a Make Me a Hanzi style dictionary.
type DictionaryEntry struct {
	Character  string   `json:"character"`
	Definition string   `json:"definition"`
	Pinyin     []string `json:"pinyin"`
}

// Dictionary holds extra readings and definitions for characters. Its
// entries add readings the built-in table lacks and rank ahead of
// characters it does not list.
type Dictionary struct {
	entries map[string]*DictionaryEntry
	order   []string
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		entries: make(map[string]*DictionaryEntry),
	}
}

// LoadFromFile loads a JSONL dictionary file.
func (d *Dictionary) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening dictionary file: %w", err)
	}
	defer file.Close()

	return d.Load(file)
}

// Load reads JSONL entries from r. Malformed lines are skipped.
func (d *Dictionary) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var entry DictionaryEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		if entry.Character == "" {
			continue
		}

		if _, seen := d.entries[entry.Character]; !seen {
			d.order = append(d.order, entry.Character)
		}
		d.entries[entry.Character] = &entry
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading dictionary file: %w", err)
	}

	return nil
}

// Lookup returns the dictionary entry for a character.
func (d *Dictionary) Lookup(char string) *DictionaryEntry {
	if d == nil {
		return nil
	}
	return d.entries[char]
}

// Size returns the number of entries in the dictionary.
func (d *Dictionary) Size() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Each calls fn for every entry in load order.
func (d *Dictionary) Each(fn func(*DictionaryEntry)) {
	if d == nil {
		return
	}
	for _, c := range d.order {
		fn(d.entries[c])
	}
}
