// Package wip provides work-in-process identity and status domain logic
package wip

import (
	"fmt"
	"regexp"
)

// idPattern is the single canonical WIP ID grammar. Validation and
// extraction both derive from this one pattern so the two can never drift.
var idPattern = regexp.MustCompile(`^WIP-([A-Z0-9]{11,15})-(\d{3})$`)

// ID is a decomposed WIP identifier.
type ID struct {
	LotNumber string `json:"lotNumber"`
	Sequence  string `json:"sequence"`
}

// String reassembles the canonical textual form.
func (id ID) String() string {
	return fmt.Sprintf("WIP-%s-%s", id.LotNumber, id.Sequence)
}

// FormatError reports an identifier that does not match the WIP grammar.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed WIP id %q (want WIP-{LOT:11-15 upper-alnum}-{SEQ:3 digits})", e.Input)
}

// Validate reports whether id conforms to the WIP grammar. Input must
// already be uppercase with no surrounding whitespace; no normalization
// is applied.
func Validate(id string) bool {
	return idPattern.MatchString(id)
}

// Parse decomposes id into its lot number and sequence. It fails with a
// *FormatError exactly when Validate reports false.
func Parse(id string) (ID, error) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return ID{}, &FormatError{Input: id}
	}
	return ID{LotNumber: m[1], Sequence: m[2]}, nil
}
