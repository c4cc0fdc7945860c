package contract

import (
	"strings"
	"unicode/utf8"

	"github.com/Klingon-tech/hashcase/pkg/tx"
)

// Metadata is the descriptive part of an NFT.
type Metadata struct {
	Name        string
	Description string
	ImageURL    string
	Attributes  []string
}

// ParseAttributes splits a comma-separated list, trimming each entry and
// dropping empties.
func ParseAttributes(s string) []string {
	var out []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Validate requires a name and valid UTF-8 throughout.
func (m Metadata) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return invalid("name is required")
	}
	for _, s := range append([]string{m.Name, m.Description, m.ImageURL}, m.Attributes...) {
		if !utf8.ValidString(s) {
			return invalid("metadata must be valid UTF-8")
		}
	}
	return nil
}

// args appends name, description, image URL (vector<u8>) and attributes
// (vector<String>) as pure inputs.
func (m Metadata) args(b *tx.Builder) []tx.Argument {
	return []tx.Argument{
		b.PureString(m.Name),
		b.PureString(m.Description),
		b.PureBytes([]byte(m.ImageURL)),
		b.PureStrings(m.Attributes),
	}
}
