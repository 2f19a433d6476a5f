package consolidate

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Candidates is the ordered set of OCR transcriptions of one image.
// Only the list shape is enforced; element types and length are not.
type Candidates []any

// UnmarshalJSON accepts a JSON array and rejects everything else, null included.
func (c *Candidates) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return errors.New("texts is not a list")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return err
	}
	if items == nil {
		items = []any{}
	}
	*c = items
	return nil
}

// Request is the body of POST /process_ocr.
type Request struct {
	Texts Candidates `json:"texts"`
}

// Result is the body of a successful consolidation.
type Result struct {
	ProcessedText string `json:"processed_text"`
}

// DecodeRequest reads a Request from r. Any malformed body, a missing texts
// field or a texts value that is not a list yields a *ValidationError.
func DecodeRequest(r io.Reader) (Request, error) {
	dec := json.NewDecoder(r)
	var body map[string]json.RawMessage
	if err := dec.Decode(&body); err != nil {
		return Request{}, &ValidationError{Reason: "body is not a JSON object", Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return Request{}, &ValidationError{Reason: "trailing data after JSON body", Err: err}
	}

	raw, ok := body["texts"]
	if !ok {
		return Request{}, &ValidationError{Reason: "texts field is missing"}
	}

	var req Request
	if err := json.Unmarshal(raw, &req.Texts); err != nil {
		return Request{}, &ValidationError{Reason: "texts field is not a list", Err: err}
	}
	if req.Texts == nil {
		return Request{}, &ValidationError{Reason: "texts field is null"}
	}
	return req, nil
}
