package dto

import (
	"encoding/json"
	"fmt"
)

// Patch remembers which JSON keys the client actually sent, so that an
// explicit null can clear a field while an absent key leaves it alone.
type Patch struct {
	sent map[string]struct{}
}

func (p *Patch) Has(key string) bool {
	_, ok := p.sent[key]
	return ok
}

// DecodePatch fills dst from body and records the keys present in it.
func DecodePatch(body []byte, dst interface{ setPatch(Patch) }) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode patch body: %w", err)
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		return fmt.Errorf("decode patch keys: %w", err)
	}
	p := Patch{sent: make(map[string]struct{}, len(keys))}
	for k := range keys {
		p.sent[k] = struct{}{}
	}
	dst.setPatch(p)
	return nil
}
