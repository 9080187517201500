package domain

import "strings"

// IdentifierSeparator separates hierarchy segments in a record identifier
const IdentifierSeparator = "/"

// EntryExtension is the suffix of every encrypted entry file in a store
const EntryExtension = ".gpg"

// ignoredLines are skipped when parsing the body of a record
var ignoredLines = map[string]bool{
	"---": true,
	"":    true,
}

// Record is one secret from the password store with its parsed metadata
type Record struct {
	Identifier   []string          // e.g., ["web", "emails", "test4"]
	Groups       []string          // Identifier without the leaf, e.g., ["web", "emails"]
	Title        string            // Leaf segment, e.g., "test4"
	Secret       string            // First line of the decrypted text
	URL          string
	Username     string
	Notes        string
	CustomFields map[string]string // Every other "key: value" line
}

// NewRecord creates an empty record located at identifier
func NewRecord(identifier string) *Record {
	segments := SplitIdentifier(identifier)
	r := &Record{
		Identifier:   segments,
		Groups:       []string{},
		CustomFields: make(map[string]string),
	}
	if len(segments) > 0 {
		r.Title = segments[len(segments)-1]
		r.Groups = append(r.Groups, segments[:len(segments)-1]...)
	}
	return r
}

// ParseRecord builds a Record from an identifier and its decrypted text.
//
// The first physical line is always the secret. Remaining lines are kept only
// when they look like "key: value"; url, user/login and notes fill the known
// fields and everything else lands in CustomFields. Later keys overwrite
// earlier ones. A key that is blank once trimmed drops the line.
func ParseRecord(identifier, plaintext string) *Record {
	r := NewRecord(identifier)

	lines := strings.Split(plaintext, "\n")
	r.Secret = strings.TrimSuffix(lines[0], "\r")

	for _, line := range lines[1:] {
		line = strings.TrimSuffix(line, "\r")
		if ignoredLines[line] || !IsValidLine(line) {
			continue
		}
		key, value := ParseLine(line)
		if key == "" {
			continue
		}
		r.set(key, value)
	}

	return r
}

func (r *Record) set(key, value string) {
	switch key {
	case "url":
		r.URL = value
	case "user", "login":
		r.Username = value
	case "notes":
		r.Notes = value
	default:
		r.CustomFields[key] = value
	}
}

// IsValidLine reports whether line has the "key: value" shape: a colon that
// is not the first character.
func IsValidLine(line string) bool {
	return strings.Index(line, ":") > 0
}

// ParseLine splits a "key: value" line on its first colon and trims both parts.
// The line must satisfy IsValidLine.
func ParseLine(line string) (string, string) {
	key, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(key), strings.TrimSpace(value)
}

// SplitIdentifier returns the hierarchy segments of an identifier.
// Leading and trailing separators are ignored.
func SplitIdentifier(identifier string) []string {
	identifier = strings.Trim(identifier, IdentifierSeparator)
	if identifier == "" {
		return []string{}
	}
	return strings.Split(identifier, IdentifierSeparator)
}

// Path returns the identifier joined with the separator
func (r *Record) Path() string {
	return strings.Join(r.Identifier, IdentifierSeparator)
}

// Clone returns a deep copy of the record
func (r *Record) Clone() *Record {
	c := *r
	c.Identifier = append([]string{}, r.Identifier...)
	c.Groups = append([]string{}, r.Groups...)
	c.CustomFields = make(map[string]string, len(r.CustomFields))
	for k, v := range r.CustomFields {
		c.CustomFields[k] = v
	}
	return &c
}
