package commands

import (
	"bytes"
	"encoding/json"
	"math"

	"statesapi/pkg/errors"
	"statesapi/pkg/utils"
)

// Client-facing validation messages
const (
	MsgFactsRequired   = "State fun facts value required"
	MsgFactsNotArray   = "State fun facts value must be an array"
	MsgIndexRequired   = "State fun fact index value required"
	MsgIndexNotInteger = "State fun fact index value must be an integer"
	MsgFunFactRequired = "State fun fact value required"
	MsgInvalidBody     = "Invalid request body"
)

var fieldMessages = map[string]string{
	"Facts":   MsgFactsRequired,
	"Index":   MsgIndexRequired,
	"FunFact": MsgFunFactRequired,
}

// AppendFunFactsCommand appends facts to a state's list.
// A nil Facts means the field was absent; an empty slice is a valid no-op.
type AppendFunFactsCommand struct {
	Facts []string `json:"facts" validate:"required"`
}

// Validate validates the AppendFunFactsCommand
func (c AppendFunFactsCommand) Validate() error {
	return validateCommand(c)
}

// UpdateFunFactCommand overwrites the fact at a 1-based index
type UpdateFunFactCommand struct {
	Index   *int    `json:"index" validate:"required"`
	FunFact *string `json:"funfact" validate:"required"`
}

// Validate validates the UpdateFunFactCommand
func (c UpdateFunFactCommand) Validate() error {
	return validateCommand(c)
}

// DeleteFunFactCommand removes the fact at a 1-based index
type DeleteFunFactCommand struct {
	Index *int `json:"index" validate:"required"`
}

// Validate validates the DeleteFunFactCommand
func (c DeleteFunFactCommand) Validate() error {
	return validateCommand(c)
}

func validateCommand(cmd interface{}) error {
	field, err := utils.FirstInvalidField(cmd)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}
	if field == "" {
		return nil
	}
	if msg, ok := fieldMessages[field]; ok {
		return errors.NewValidationError(msg)
	}
	return errors.NewValidationError(field + " is invalid")
}

// funFactsBody is the union of fields accepted by the fun fact endpoints.
// "funfacts" is the field name used by earlier clients.
type funFactsBody struct {
	Facts    json.RawMessage `json:"facts"`
	FunFacts json.RawMessage `json:"funfacts"`
	Index    json.RawMessage `json:"index"`
	FunFact  json.RawMessage `json:"funfact"`
}

// ParseAppendFunFacts builds an AppendFunFactsCommand from a JSON body
func ParseAppendFunFacts(body []byte) (AppendFunFactsCommand, error) {
	raw, err := decodeBody(body)
	if err != nil {
		return AppendFunFactsCommand{}, err
	}

	facts := raw.Facts
	if isAbsent(facts) {
		facts = raw.FunFacts
	}
	if isAbsent(facts) {
		return AppendFunFactsCommand{}, nil
	}
	if bytes.TrimSpace(facts)[0] != '[' {
		return AppendFunFactsCommand{}, errors.NewValidationError(MsgFactsNotArray)
	}

	cmd := AppendFunFactsCommand{Facts: []string{}}
	if err := json.Unmarshal(facts, &cmd.Facts); err != nil {
		return AppendFunFactsCommand{}, errors.NewValidationError(MsgFactsNotArray)
	}
	return cmd, nil
}

// ParseUpdateFunFact builds an UpdateFunFactCommand from a JSON body
func ParseUpdateFunFact(body []byte) (UpdateFunFactCommand, error) {
	raw, err := decodeBody(body)
	if err != nil {
		return UpdateFunFactCommand{}, err
	}

	index, err := parseIndex(raw.Index)
	if err != nil {
		return UpdateFunFactCommand{}, err
	}

	cmd := UpdateFunFactCommand{Index: index}
	if !isAbsent(raw.FunFact) {
		var fact string
		// Non-string values are treated as missing
		if json.Unmarshal(raw.FunFact, &fact) == nil {
			cmd.FunFact = &fact
		}
	}
	return cmd, nil
}

// ParseDeleteFunFact builds a DeleteFunFactCommand from a JSON body
func ParseDeleteFunFact(body []byte) (DeleteFunFactCommand, error) {
	raw, err := decodeBody(body)
	if err != nil {
		return DeleteFunFactCommand{}, err
	}

	index, err := parseIndex(raw.Index)
	if err != nil {
		return DeleteFunFactCommand{}, err
	}
	return DeleteFunFactCommand{Index: index}, nil
}

func decodeBody(body []byte) (funFactsBody, error) {
	var raw funFactsBody
	if len(bytes.TrimSpace(body)) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return raw, errors.NewValidationError(MsgInvalidBody).WithCause(err)
	}
	return raw, nil
}

// maxExactIndex is the largest integer a float64 holds exactly
const maxExactIndex = 1 << 53

func parseIndex(raw json.RawMessage) (*int, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	// Any integral JSON number is accepted, so 2.0 means 2
	var value float64
	if err := json.Unmarshal(raw, &value); err != nil ||
		value != math.Trunc(value) || math.Abs(value) > maxExactIndex {
		return nil, errors.NewValidationError(MsgIndexNotInteger)
	}
	index := int(value)
	return &index, nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
