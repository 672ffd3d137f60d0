package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Confidence is the coarse match-quality tier of a mapping entry.
type Confidence string

const (
	// ConfidenceHigh means similarity above 80.
	ConfidenceHigh Confidence = "High"
	// ConfidenceMedium means similarity above 60.
	ConfidenceMedium Confidence = "Medium"
	// ConfidenceLow means similarity above 40.
	ConfidenceLow Confidence = "Low"
	// ConfidenceManual marks a user-confirmed mapping. Only a manual edit
	// may construct this tier; automatic resolution never does.
	ConfidenceManual Confidence = "Manual"
	// ConfidenceNone means no usable match (or a subtotal row).
	ConfidenceNone Confidence = "None"
)

// Valid reports whether c is one of the known confidence tiers.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceManual, ConfidenceNone:
		return true
	}
	return false
}

// MappingEntry is the resolved assignment for one source description.
//
// Invariants: ManuallyEdited implies Confidence == Manual, and a subtotal
// source always carries an empty target with Confidence == None.
type MappingEntry struct {
	TargetCategory string     `json:"target_category"`
	Confidence     Confidence `json:"confidence"`
	Similarity     float64    `json:"similarity"`
	ManuallyEdited bool       `json:"manually_edited"`
}

// Validate checks the entry against the schema invariants.
func (e MappingEntry) Validate() error {
	if !e.Confidence.Valid() {
		return fmt.Errorf("unknown confidence '%s'", e.Confidence)
	}
	if e.Similarity < 0 || e.Similarity > 100 {
		return fmt.Errorf("similarity %.2f outside [0,100]", e.Similarity)
	}
	if e.ManuallyEdited && e.Confidence != ConfidenceManual {
		return fmt.Errorf("manually edited entry must carry Manual confidence, has '%s'", e.Confidence)
	}
	if !e.ManuallyEdited && e.Confidence == ConfidenceManual {
		return fmt.Errorf("Manual confidence requires the manually_edited flag")
	}
	return nil
}

// SubtotalEntry is the fixed entry assigned to subtotal source rows.
func SubtotalEntry() MappingEntry {
	return MappingEntry{TargetCategory: "", Confidence: ConfidenceNone, Similarity: 0}
}

// MappingTable is an ordered source-description -> MappingEntry table.
// Order is first-seen source order across all runs and survives JSON
// round trips; the serialized form is an object whose keys appear in
// insertion order.
type MappingTable struct {
	order   []string
	entries map[string]MappingEntry
}

// NewMappingTable creates an empty table.
func NewMappingTable() *MappingTable {
	return &MappingTable{entries: make(map[string]MappingEntry)}
}

// Len returns the number of entries.
func (t *MappingTable) Len() int {
	return len(t.order)
}

// Has reports whether the description already has an entry.
func (t *MappingTable) Has(description string) bool {
	_, ok := t.entries[description]
	return ok
}

// Get returns the entry for a description.
func (t *MappingTable) Get(description string) (MappingEntry, bool) {
	e, ok := t.entries[description]
	return e, ok
}

// Set stores an entry, appending the description to the table order if it
// is new. Existing descriptions keep their position.
func (t *MappingTable) Set(description string, entry MappingEntry) {
	if t.entries == nil {
		t.entries = make(map[string]MappingEntry)
	}
	if _, ok := t.entries[description]; !ok {
		t.order = append(t.order, description)
	}
	t.entries[description] = entry
}

// Descriptions returns the descriptions in table order.
func (t *MappingTable) Descriptions() []string {
	return append([]string{}, t.order...)
}

// Clone returns a deep copy of the table.
func (t *MappingTable) Clone() *MappingTable {
	c := NewMappingTable()
	for _, d := range t.order {
		c.Set(d, t.entries[d])
	}
	return c
}

// Validate checks every entry against the schema invariants.
func (t *MappingTable) Validate() error {
	for _, d := range t.order {
		if err := t.entries[d].Validate(); err != nil {
			return fmt.Errorf("entry '%s': %w", d, err)
		}
	}
	return nil
}

// MarshalJSON serializes the table as a JSON object with keys in
// insertion order. A plain map would lose the order guarantee.
func (t *MappingTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range t.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(t.entries[d])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form back, preserving key order.
func (t *MappingTable) UnmarshalJSON(data []byte) error {
	t.order = nil
	t.entries = make(map[string]MappingEntry)

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("mapping table must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("mapping table key is not a string")
		}
		var entry MappingEntry
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("entry '%s': %w", key, err)
		}
		if t.Has(key) {
			return fmt.Errorf("duplicate mapping key '%s'", key)
		}
		t.Set(key, entry)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
