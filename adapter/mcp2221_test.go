package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMCP2221_BufferToGPIOValues(t *testing.T) {
	buffer := make([]byte, 64)
	buffer[2] = 0x01 // GP0 value
	buffer[3] = 0x00 // GP0 output
	buffer[4] = 0x00 // GP1 value
	buffer[5] = 0x01 // GP1 input
	buffer[6] = 0x00
	buffer[7] = byte(GPIOModeNoOperation)
	buffer[8] = 0x01
	buffer[9] = byte(GPIOModeNoOperation)

	values := bufferToGPIOValues(buffer)

	assert.Equal(t, GPIOModeOut, values.GPIO0Mode)
	assert.Equal(t, byte(0x01), values.GPIO0Value)
	assert.Equal(t, GPIOModeIn, values.GPIO1Mode)
	assert.Equal(t, byte(0x00), values.GPIO1Value)
	assert.Equal(t, GPIOModeNoOperation, values.GPIO2Mode)
	assert.Equal(t, GPIOModeNoOperation, values.GPIO3Mode)
	assert.Equal(t, byte(0x01), values.GPIO3Value)
}

func TestMCP2221_BufferToStatus(t *testing.T) {
	buffer := make([]byte, 64)
	buffer[9] = 0x06 // requested transfer length, little endian
	buffer[11] = 0x03
	buffer[13] = 0x02
	buffer[14] = 0x26
	buffer[15] = 0x0F
	buffer[16] = 0x70
	buffer[25] = 0x01

	status := bufferToStatus(buffer)

	assert.Equal(t, uint16(6), status.LastWriteRequestedSize)
	assert.Equal(t, uint16(3), status.LastWriteSentSize)
	assert.Equal(t, 2, status.I2CDataBufferCounter)
	assert.Equal(t, 0x26, status.I2CSpeedDivider)
	assert.Equal(t, 0x0F, status.I2CTimeout)
	assert.Equal(t, "7000", status.CurrentAddress)
	assert.Equal(t, 1, status.ReadPending)
}
