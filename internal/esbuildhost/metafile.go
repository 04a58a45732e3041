package esbuildhost

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Metafile is the part of esbuild's metafile JSON the host reads.
type Metafile struct {
	Outputs map[string]MetafileOutput `json:"outputs"`
}

// MetafileOutput describes one output file. Inputs keeps the order esbuild
// wrote the contributing modules in.
type MetafileOutput struct {
	Bytes      int         `json:"bytes"`
	Inputs     OrderedKeys `json:"inputs"`
	EntryPoint string      `json:"entryPoint,omitempty"`
}

// OrderedKeys decodes a JSON object into its keys, in document order.
type OrderedKeys []string

func (k *OrderedKeys) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}

	keys := OrderedKeys{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return err
		}
		keys = append(keys, key)
	}
	*k = keys
	return nil
}

// ParseMetafile decodes esbuild's metafile JSON.
func ParseMetafile(data string) (*Metafile, error) {
	var m Metafile
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("parsing metafile: %w", err)
	}
	return &m, nil
}
