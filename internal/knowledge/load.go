package knowledge

import (
	"fmt"
	"os"

	"github.com/titanous/json5"
)

// fileFormat is the on-disk knowledge base. Categories and topics are arrays
// so that match order survives the round trip through a JSON object.
type fileFormat struct {
	Categories []fileCategory           `json:"categories"`
	Messages   map[string]Translations `json:"messages"`
}

type fileCategory struct {
	Name   string      `json:"name"`
	Topics []fileTopic `json:"topics"`
}

type fileTopic struct {
	Key     string       `json:"key"`
	Title   Translations `json:"title"`
	Text    Translations `json:"text"`
	Tagline Translations `json:"tagline,omitempty"`
}

// Load reads a JSON5 knowledge file. Messages missing from the file fall back
// to the built-in message table; topics are taken from the file only.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON5 knowledge document.
func Parse(data []byte) (*KnowledgeBase, error) {
	var f fileFormat
	if err := json5.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse knowledge file: %w", err)
	}

	var entries []Entry
	for _, c := range f.Categories {
		for _, t := range c.Topics {
			entries = append(entries, Entry{
				Category: c.Name,
				Key:      t.Key,
				Title:    t.Title,
				Text:     t.Text,
				Tagline:  t.Tagline,
			})
		}
	}

	messages := defaultMessages()
	for k, v := range f.Messages {
		messages[k] = v
	}
	return New(entries, messages)
}
