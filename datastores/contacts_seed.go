package datastores

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//go:embed contacts.json
var seedContacts []byte

// SeedContacts decodes the built-in contacts dataset.
func SeedContacts() ([]*Contact, error) {
	return DecodeContacts(bytes.NewReader(seedContacts))
}

// LoadContacts decodes the contacts dataset stored at path.
func LoadContacts(path string) ([]*Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeContacts(f)
}

// DecodeContacts reads a JSON array of contacts and checks their ids are
// positive and unique.
func DecodeContacts(r io.Reader) ([]*Contact, error) {
	var cs []*Contact
	if err := json.NewDecoder(r).Decode(&cs); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	seen := make(map[ContactID]struct{}, len(cs))
	for i, c := range cs {
		if c == nil || c.ID <= 0 {
			return nil, fmt.Errorf("decode contacts: entry %d: invalid id", i)
		}
		if _, ok := seen[c.ID]; ok {
			return nil, fmt.Errorf("decode contacts: entry %d: duplicate id %d", i, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return cs, nil
}
