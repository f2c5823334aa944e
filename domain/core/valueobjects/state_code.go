package valueobjects

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrInvalidStateCode is returned when a value is not a two-letter code
var ErrInvalidStateCode = errors.New("state code must be exactly two letters")

// StateCode is the canonical uppercase two-letter abbreviation of a US state.
// It only guarantees shape; membership in the 50-state set is checked
// against the reference dataset.
type StateCode struct {
	value string
}

// NewStateCode normalizes raw to uppercase and validates its shape
func NewStateCode(raw string) (StateCode, error) {
	code := strings.ToUpper(raw)
	if len(code) != 2 {
		return StateCode{}, ErrInvalidStateCode
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'A' || code[i] > 'Z' {
			return StateCode{}, ErrInvalidStateCode
		}
	}
	return StateCode{value: code}, nil
}

// MustStateCode is like NewStateCode but panics on invalid input
func MustStateCode(raw string) StateCode {
	code, err := NewStateCode(raw)
	if err != nil {
		panic(err)
	}
	return code
}

// String returns the string representation of the StateCode
func (c StateCode) String() string {
	return c.value
}

// Equals checks if two StateCodes are equal
func (c StateCode) Equals(other StateCode) bool {
	return c.value == other.value
}

// IsZero checks if the StateCode is the zero value
func (c StateCode) IsZero() bool {
	return c.value == ""
}

// MarshalJSON implements json.Marshaler
func (c StateCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (c *StateCode) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("StateCode must be a string")
	}
	code, err := NewStateCode(raw)
	if err != nil {
		return err
	}
	*c = code
	return nil
}
