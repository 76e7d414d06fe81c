// README: Defensive extraction of an itinerary object from free-form model output.
package itinerary

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Parse failure kinds. Match them with errors.Is on a *ParseError.
var (
	ErrNoJSON        = errors.New("no JSON found")
	ErrMalformedJSON = errors.New("malformed JSON")
	ErrInvalidShape  = errors.New("invalid itinerary shape")
)

// ParseError reports why a completion could not be turned into an itinerary.
type ParseError struct {
	Kind   error
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Extract takes the text between the first '{' and the last '}' of raw and accepts
// it when it is a UTF-8 JSON object with exactly one top-level days key holding an
// array. The object is returned unchanged apart from insignificant whitespace.
//
// The span is not brace-balanced: a reply holding two separate objects yields a
// candidate that is not valid JSON and is rejected with ErrMalformedJSON rather than
// guessed at. A repeated days key is rejected for the same reason, since decoders
// disagree on which occurrence wins.
func Extract(raw string) (Itinerary, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return Itinerary{}, &ParseError{Kind: ErrNoJSON}
	}
	return extractObject([]byte(raw[start : end+1]))
}

func extractObject(candidate []byte) (Itinerary, error) {
	if !utf8.Valid(candidate) {
		return Itinerary{}, &ParseError{Kind: ErrMalformedJSON, Detail: "invalid UTF-8"}
	}
	if !gjson.ValidBytes(candidate) {
		return Itinerary{}, &ParseError{Kind: ErrMalformedJSON}
	}

	var (
		days  gjson.Result
		count int
	)
	gjson.ParseBytes(candidate).ForEach(func(key, value gjson.Result) bool {
		if key.String() == "days" {
			days = value
			count++
		}
		return true
	})
	switch {
	case count == 0:
		return Itinerary{}, &ParseError{Kind: ErrInvalidShape, Detail: "missing days"}
	case count > 1:
		return Itinerary{}, &ParseError{Kind: ErrInvalidShape, Detail: "duplicate days"}
	case !days.IsArray():
		return Itinerary{}, &ParseError{Kind: ErrInvalidShape, Detail: "days is not an array"}
	}

	return Itinerary{raw: pretty.Ugly(candidate)}, nil
}
