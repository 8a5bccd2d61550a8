package table

import (
	"strings"

	"gopkg.in/guregu/null.v3"
)

// missingTokens are cell contents that are read as missing values.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"-":    {},
}

// Value is a single categorical cell. The zero Value is missing.
type Value struct {
	s null.String
}

// Missing returns a missing Value.
func Missing() Value {
	return Value{}
}

// StringValue returns a present Value holding s, even if s is empty.
func StringValue(s string) Value {
	return Value{s: null.StringFrom(s)}
}

// Parse interprets a raw cell, treating the usual missing-value tokens as
// missing.
func Parse(raw string) Value {
	raw = strings.TrimSpace(raw)
	if _, exists := missingTokens[raw]; exists {
		return Missing()
	}
	return StringValue(raw)
}

func (v Value) IsMissing() bool {
	return !v.s.Valid
}

// String renders the value for tabular output; missing values are empty.
func (v Value) String() string {
	if !v.s.Valid {
		return ""
	}

	return v.s.String
}

// Compare orders values lexicographically with missing values last.
func (v Value) Compare(o Value) int {
	switch {
	case v.IsMissing() && o.IsMissing():
		return 0
	case v.IsMissing():
		return 1
	case o.IsMissing():
		return -1
	}

	return strings.Compare(v.s.String, o.s.String)
}
