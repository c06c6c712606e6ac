package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// filenamePattern is the manifest entry grammar: rank, underscore,
// descriptive segment, dot, suffix.
var filenamePattern = regexp.MustCompile(`^(\d+)_(.+)\.(md|html|pdf|jpg|jpeg|png|webp|txt)$`)

var suffixTypes = map[string]ContentType{
	"md":   Markdown,
	"html": HTML,
	"pdf":  PDF,
	"jpg":  Image,
	"jpeg": Image,
	"png":  Image,
	"webp": Image,
	"txt":  Text,
}

// FileEntry is the parsed form of a manifest filename.
type FileEntry struct {
	File string
	Rank int
	Name string
	Type ContentType
}

// ParseFilename parses a manifest filename such as "1_getting_started.md".
// Names with a path separator are rejected so an entry stays inside its
// topic directory.
func ParseFilename(name string) (FileEntry, error) {
	if strings.ContainsAny(name, `/\`) {
		return FileEntry{}, fmt.Errorf("invalid filename %q: contains a path element", name)
	}

	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return FileEntry{}, fmt.Errorf("invalid filename format: %q", name)
	}

	rank, err := strconv.Atoi(m[1])
	if err != nil {
		return FileEntry{}, fmt.Errorf("invalid rank in %q: %w", name, err)
	}

	return FileEntry{
		File: name,
		Rank: rank,
		Name: strings.ReplaceAll(m[2], "_", " "),
		Type: suffixTypes[m[3]],
	}, nil
}

// ValidTopicID reports whether id is safe to use as a single path segment.
func ValidTopicID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
