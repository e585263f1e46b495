package transport

import "encoding/json"

// Envelope is the uniform response wrapper: a boolean outcome flag, a
// human-readable message and the optional payload. Failed validations and
// failed operations are distinguished by message, not by shape.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, message string) Envelope {
	if message == "" {
		message = "Success"
	}
	return Envelope{
		Success: true,
		Message: message,
		Data:    data,
	}
}

// NewError returns a failure envelope with a semantic code.
func NewError(code, message string) Envelope {
	return Envelope{
		Success: false,
		Message: message,
		Code:    code,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
