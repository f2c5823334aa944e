package entities

import "statesapi/domain/core/valueobjects"

// StateRecord holds the static reference attributes of a US state.
// Records come from the reference dataset and are never mutated at runtime.
type StateRecord struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Capital       string `json:"capital"`
	Nickname      string `json:"nickname"`
	Population    int    `json:"population"`
	AdmissionDate string `json:"admissionDate"`
	Contiguous    bool   `json:"contiguous"`
}

// StateCode returns the record's code as a value object
func (s StateRecord) StateCode() valueobjects.StateCode {
	return valueobjects.MustStateCode(s.Code)
}

// MergedState is a StateRecord combined with its current fun facts.
// Facts is omitted from JSON when the state has none.
type MergedState struct {
	StateRecord
	Facts []string `json:"facts,omitempty"`
}

// Merge combines a record with a fact document. A nil or empty document
// yields the bare record.
func Merge(record StateRecord, doc *FactDocument) MergedState {
	merged := MergedState{StateRecord: record}
	if doc != nil && !doc.IsEmpty() {
		merged.Facts = doc.Facts()
	}
	return merged
}
