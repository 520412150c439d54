package gps

import (
	"io"
	"time"

	serial "github.com/jacobsa/go-serial/serial"
)

// SerialReader adapts a serial port to the ByteReader interface. The port
// is opened with a zero minimum read size and a 100 ms inter-character
// timeout, so a one-byte Read returns shortly after the line goes idle.
type SerialReader struct {
	port io.ReadWriteCloser
	buf  [1]byte
}

// OpenSerial opens the GPS serial port (8N1).
func OpenSerial(portName string, baudRate uint) (*SerialReader, error) {
	port, err := serial.Open(serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	})
	if err != nil {
		return nil, err
	}
	return &SerialReader{port: port}, nil
}

// ReadByte returns the next byte from the port. The wait is bounded by the
// port's inter-character timeout rather than enforced per call.
func (r *SerialReader) ReadByte(_ time.Duration) (byte, bool) {
	n, err := r.port.Read(r.buf[:])
	if err != nil || n == 0 {
		return 0, false
	}
	return r.buf[0], true
}

func (r *SerialReader) Close() error { return r.port.Close() }
