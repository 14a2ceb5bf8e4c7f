package climate

import (
	"context"
	"fmt"
)

var ErrBusBusy = fmt.Errorf("I2C engine is busy (command not completed)")

// AddressableReader reads exactly len(buffer) bytes from a device at the
// given 7-bit bus address. A device that does not respond or disconnects
// mid-transfer returns an error; no retries happen at this layer.
type AddressableReader interface {
	ReadFromAddr(ctx context.Context, address byte, buffer []byte) error
}

// AddressableWriter sends a byte sequence to a device at the given 7-bit bus
// address, ending in a stop condition.
type AddressableWriter interface {
	WriteToAddr(ctx context.Context, address byte, buffer []byte) error
	Release(ctx context.Context) error
}

type I2CBus interface {
	AddressableReader
	AddressableWriter
}
