// Package provision loads word pairs into a word store out-of-band.
package provision

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Entry is one word pair in a seed file. ID is optional.
type Entry struct {
	ID        string `koanf:"id"`
	Primary   string `koanf:"primary"`
	Secondary string `koanf:"secondary"`
}

// Seed is the content of a seed file:
//
//	words:
//	  - primary: DOOR
//	    secondary: puerta
type Seed struct {
	Words []Entry `koanf:"words"`
}

// LoadFile parses the YAML seed at path and validates it.
func LoadFile(path string) (*Seed, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSeed, path, err)
	}

	var seed Seed
	if err := k.UnmarshalWithConf("", &seed, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidSeed, path, err)
	}
	if err := seed.Validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

// Validate trims every entry in place and rejects empty words and
// duplicate ids.
func (s *Seed) Validate() error {
	if len(s.Words) == 0 {
		return fmt.Errorf("%w: no words", ErrInvalidSeed)
	}

	seen := make(map[string]int, len(s.Words))
	for i := range s.Words {
		e := &s.Words[i]
		e.ID = strings.TrimSpace(e.ID)
		e.Primary = strings.TrimSpace(e.Primary)
		e.Secondary = strings.TrimSpace(e.Secondary)

		if e.Primary == "" || e.Secondary == "" {
			return fmt.Errorf("%w: entry %d: primary and secondary are required", ErrInvalidSeed, i)
		}
		if e.ID == "" {
			continue
		}
		if j, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: entry %d: id %q already used by entry %d", ErrInvalidSeed, i, e.ID, j)
		}
		seen[e.ID] = i
	}
	return nil
}

func pairKey(primary, secondary string) string {
	return strings.ToLower(primary) + "\x00" + strings.ToLower(secondary)
}
