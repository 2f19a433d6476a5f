package consolidate

// InvalidInputMessage is the fixed body text returned for malformed requests.
const InvalidInputMessage = "Invalid input. Please provide a list of OCR-extracted texts."

// ValidationError reports a request that cannot be processed. It is always
// caused by the client and never reaches the inference server.
type ValidationError struct {
	// Reason describes what was wrong, for logs only.
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return InvalidInputMessage
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// InferenceError wraps any failure of the call to the inference server.
type InferenceError struct {
	Model string
	Err   error
}

func (e *InferenceError) Error() string {
	if e.Err == nil {
		return "inference failed"
	}
	return e.Err.Error()
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
