package openmeteo

import "fmt"

// NetworkError covers timeouts, connection failures and non-2xx responses.
type NetworkError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("open-meteo: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("open-meteo request: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DataShapeError means the body could not be decoded or a required field is
// missing, null, empty or of the wrong type.
type DataShapeError struct {
	Field string
	Err   error
}

func (e *DataShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("open-meteo response: %v", e.Err)
	}
	return fmt.Sprintf("open-meteo response field %q: %v", e.Field, e.Err)
}

func (e *DataShapeError) Unwrap() error {
	return e.Err
}
