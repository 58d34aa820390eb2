package domain

import (
	"encoding/json"
	"fmt"
)

// Kind is the closed set of attachment payload categories. The codec and
// the storage adapter both dispatch on the same variants.
type Kind uint8

const (
	KindText Kind = iota
	KindAudio
	KindImage
	KindPDF
	KindWord
)

var kindNames = map[Kind]string{
	KindText:  "text",
	KindAudio: "audio",
	KindImage: "image",
	KindPDF:   "pdf",
	KindWord:  "word",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind maps a wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown attachment kind %q", s)
}

// MarshalJSON encodes the kind by name so persisted records stay readable.
func (k Kind) MarshalJSON() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("unknown attachment kind %d", uint8(k))
	}
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
