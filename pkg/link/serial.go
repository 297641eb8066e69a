package link

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// DefaultBaudRate is the companion UART speed.
const DefaultBaudRate = 9600

// serialReadTimeout bounds a blocking read so the pump observes
// cancellation.
const serialReadTimeout = 100 * time.Millisecond

// OpenSerial opens a UART at 8N1 and wraps it in a Stream.
func OpenSerial(device string, baudRate int) (*Stream, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	port, err := serial.Open(device, &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	// go.bug.st/serial returns (0, nil) on read timeout.
	return NewStream(port), nil
}

// ListSerial lists serial ports on the system.
func ListSerial() ([]string, error) {
	return serial.GetPortsList()
}
