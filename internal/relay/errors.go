package relay

import "fmt"

// TransportError indicates the request never produced a device response:
// connection refused, timeout, DNS failure, or a broken response body.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relay: transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeviceError indicates the device answered with a non-success status. Body
// carries a snippet of the response for diagnostics.
type DeviceError struct {
	Status int
	Body   string
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("relay: device returned %d: %s", e.Status, e.Body)
}
