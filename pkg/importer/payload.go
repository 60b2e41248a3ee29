/*
Package importer turns profile export codes from an external provider into
child profiles, and produces codes in the same format.

A code is either raw JSON (one object or an array of objects) or the
provider prefix followed by base64 encoded JSON.
*/
package importer

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderPrefix = "KINDORA_"
	ProviderSource = "kindora.ai"
)

var (
	ErrInvalidImportCode = fmt.Errorf("invalid import code")
)

/*
ParseError describes why a code could not be read. Every ParseError is an
ErrInvalidImportCode.
*/
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (%s: %v)", ErrInvalidImportCode.Error(), e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidImportCode
}

// Record is one profile object from a payload, keyed by JSON field name.
type Record map[string]json.RawMessage

/*
Payload is the successful result of parsing a code.
*/
type Payload struct {
	Encoded bool
	Records []Record
}

/*
Parse decodes a code into records without interpreting any field. A single
object becomes a one-element list.
*/
func Parse(code string) (Payload, error) {
	var (
		err     error
		raw     []byte
		records []Record
	)

	result := Payload{}
	code = strings.TrimSpace(code)

	if strings.HasPrefix(code, ProviderPrefix) {
		result.Encoded = true

		if raw, err = decodeBase64(strings.TrimPrefix(code, ProviderPrefix)); err != nil {
			return Payload{}, &ParseError{Stage: "base64", Err: err}
		}
	} else {
		raw = []byte(code)
	}

	raw = bytes.TrimSpace(raw)

	if len(raw) > 0 && raw[0] == '[' {
		var elements []json.RawMessage

		if err = json.Unmarshal(raw, &elements); err != nil {
			return Payload{}, &ParseError{Stage: "json", Err: err}
		}

		for index, element := range elements {
			record := Record{}

			if err = json.Unmarshal(element, &record); err != nil || record == nil {
				return Payload{}, &ParseError{Stage: "shape", Err: fmt.Errorf("element %d is not an object", index)}
			}

			records = append(records, record)
		}
	} else {
		record := Record{}

		if err = json.Unmarshal(raw, &record); err != nil {
			return Payload{}, &ParseError{Stage: "json", Err: err}
		}

		if record == nil {
			return Payload{}, &ParseError{Stage: "shape", Err: errors.New("payload is null")}
		}

		records = []Record{record}
	}

	result.Records = records
	return result, nil
}

/*
decodeBase64 accepts standard base64 with or without padding and ignores
embedded whitespace.
*/
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			return -1
		}

		return r
	}, s)

	s = strings.TrimRight(s, "=")
	return base64.RawStdEncoding.DecodeString(s)
}
