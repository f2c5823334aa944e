package entities

import (
	"errors"
	"time"

	"statesapi/domain/core/valueobjects"
)

// ErrIndexOutOfRange is returned when a 1-based fact index does not address an entry
var ErrIndexOutOfRange = errors.New("fun fact index out of range")

// FactDocument is the persisted, ordered list of fun facts for one state.
// Positions are addressed externally with 1-based indices.
type FactDocument struct {
	stateCode valueobjects.StateCode
	facts     []string
	updatedAt time.Time
}

// NewFactDocument creates a document for a state that has no stored facts yet
func NewFactDocument(code valueobjects.StateCode, facts []string) *FactDocument {
	return &FactDocument{
		stateCode: code,
		facts:     append(make([]string, 0, len(facts)), facts...),
		updatedAt: time.Now().UTC(),
	}
}

// ReconstructFactDocument rebuilds a document loaded from persistence
func ReconstructFactDocument(code string, facts []string, updatedAt time.Time) (*FactDocument, error) {
	stateCode, err := valueobjects.NewStateCode(code)
	if err != nil {
		return nil, err
	}
	return &FactDocument{
		stateCode: stateCode,
		facts:     append(make([]string, 0, len(facts)), facts...),
		updatedAt: updatedAt,
	}, nil
}

// StateCode returns the owning state's code
func (d *FactDocument) StateCode() valueobjects.StateCode {
	return d.stateCode
}

// Facts returns a copy of the ordered fact list
func (d *FactDocument) Facts() []string {
	return append(make([]string, 0, len(d.facts)), d.facts...)
}

// Len returns the number of facts
func (d *FactDocument) Len() int {
	return len(d.facts)
}

// IsEmpty reports whether the document holds no facts
func (d *FactDocument) IsEmpty() bool {
	return len(d.facts) == 0
}

// UpdatedAt returns the time of the last mutation
func (d *FactDocument) UpdatedAt() time.Time {
	return d.updatedAt
}

// At returns the fact at a 0-based position
func (d *FactDocument) At(pos int) string {
	return d.facts[pos]
}

// Append adds facts to the end of the list, keeping existing order
func (d *FactDocument) Append(facts ...string) {
	d.facts = append(d.facts, facts...)
	d.touch()
}

// Replace overwrites the fact at the 1-based index and returns the previous value
func (d *FactDocument) Replace(index int, fact string) (string, error) {
	pos, err := d.position(index)
	if err != nil {
		return "", err
	}
	previous := d.facts[pos]
	d.facts[pos] = fact
	d.touch()
	return previous, nil
}

// Remove deletes the fact at the 1-based index, shifting later facts left
func (d *FactDocument) Remove(index int) (string, error) {
	pos, err := d.position(index)
	if err != nil {
		return "", err
	}
	removed := d.facts[pos]
	d.facts = append(d.facts[:pos], d.facts[pos+1:]...)
	d.touch()
	return removed, nil
}

func (d *FactDocument) position(index int) (int, error) {
	pos := index - 1
	if pos < 0 || pos >= len(d.facts) {
		return 0, ErrIndexOutOfRange
	}
	return pos, nil
}

func (d *FactDocument) touch() {
	d.updatedAt = time.Now().UTC()
}
