// Package prompt holds the instruction templates sent to the language model.
package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultReminder is used when no template file overrides it.
const DefaultReminder = "Tell me about the book: {title} by {author}"

// DefaultBookshelf asks for one bullet per legible book.
const DefaultBookshelf = `Analyze this bookshelf photo and list every book whose title or author you can actually read.
Format each book on its own line exactly like this:
- Title: <title>, Author: <author>, Confidence: <high|medium|low>
Only include books with legible text on the spine or cover. Do not guess titles you cannot read.
Use "Unknown" for an author you cannot read.`

// Templates are the prompts used by the enrichment endpoints.
type Templates struct {
	Reminder  string `yaml:"reminder"`
	Bookshelf string `yaml:"bookshelf"`
}

// Defaults returns the built-in templates.
func Defaults() Templates {
	return Templates{
		Reminder:  DefaultReminder,
		Bookshelf: DefaultBookshelf,
	}
}

// Load reads templates from a YAML file. A missing file yields the defaults
// and keys absent from the file keep their default value.
func Load(path string) (Templates, error) {
	t := Defaults()
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return Templates{}, fmt.Errorf("failed to read prompt file: %w", err)
	}

	var fromFile Templates
	if err := yaml.Unmarshal(raw, &fromFile); err != nil {
		return Templates{}, fmt.Errorf("failed to parse prompt file: %w", err)
	}

	if strings.TrimSpace(fromFile.Reminder) != "" {
		t.Reminder = fromFile.Reminder
	}
	if strings.TrimSpace(fromFile.Bookshelf) != "" {
		t.Bookshelf = fromFile.Bookshelf
	}

	return t, nil
}

// RenderReminder substitutes {title} and {author} into the reminder template.
func (t Templates) RenderReminder(title, author string) string {
	return strings.NewReplacer("{title}", title, "{author}", author).Replace(t.Reminder)
}
