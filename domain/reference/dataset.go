// Package reference holds the immutable table of US state attributes that
// the API serves alongside user-managed fun facts.
package reference

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"statesapi/domain/core/entities"
	"statesapi/domain/core/valueobjects"
)

//go:embed states.json
var statesJSON []byte

// Dataset is a read-only lookup table of state records, built once at startup.
// All accessors return copies so callers cannot mutate shared state.
type Dataset struct {
	records []entities.StateRecord
	byCode  map[string]int
}

// Load decodes the bundled 50-state dataset
func Load() (*Dataset, error) {
	var records []entities.StateRecord
	if err := json.Unmarshal(statesJSON, &records); err != nil {
		return nil, fmt.Errorf("failed to decode bundled states: %w", err)
	}
	return New(records)
}

// MustLoad is like Load but panics if the bundled data is malformed
func MustLoad() *Dataset {
	ds, err := Load()
	if err != nil {
		panic(err)
	}
	return ds
}

// New builds a dataset from records, keeping their order.
// Codes are canonicalized and must be unique.
func New(records []entities.StateRecord) (*Dataset, error) {
	ds := &Dataset{
		records: make([]entities.StateRecord, 0, len(records)),
		byCode:  make(map[string]int, len(records)),
	}
	for _, record := range records {
		code, err := valueobjects.NewStateCode(record.Code)
		if err != nil {
			return nil, fmt.Errorf("invalid state code %q: %w", record.Code, err)
		}
		if _, exists := ds.byCode[code.String()]; exists {
			return nil, fmt.Errorf("duplicate state code %s", code)
		}
		record.Code = code.String()
		ds.byCode[record.Code] = len(ds.records)
		ds.records = append(ds.records, record)
	}
	return ds, nil
}

// Len returns the number of states
func (d *Dataset) Len() int {
	return len(d.records)
}

// All returns every record in dataset order
func (d *Dataset) All() []entities.StateRecord {
	return append(make([]entities.StateRecord, 0, len(d.records)), d.records...)
}

// Contiguous returns the records whose contiguity matches want
func (d *Dataset) Contiguous(want bool) []entities.StateRecord {
	out := make([]entities.StateRecord, 0, len(d.records))
	for _, record := range d.records {
		if record.Contiguous == want {
			out = append(out, record)
		}
	}
	return out
}

// Lookup finds a record by code, case-insensitively
func (d *Dataset) Lookup(code string) (entities.StateRecord, bool) {
	sc, err := valueobjects.NewStateCode(code)
	if err != nil {
		return entities.StateRecord{}, false
	}
	idx, ok := d.byCode[sc.String()]
	if !ok {
		return entities.StateRecord{}, false
	}
	return d.records[idx], true
}

// Contains reports whether code names a known state
func (d *Dataset) Contains(code string) bool {
	_, ok := d.Lookup(code)
	return ok
}

// Codes returns the canonical codes in dataset order
func (d *Dataset) Codes() []string {
	codes := make([]string, len(d.records))
	for i, record := range d.records {
		codes[i] = record.Code
	}
	return codes
}
