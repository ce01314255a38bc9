package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatePredicates(t *testing.T) {
	assert.True(t, BoundTx.CanTransmit())
	assert.False(t, BoundTx.CanReceive())
	assert.True(t, BoundRx.CanReceive())
	assert.False(t, BoundRx.CanTransmit())
	assert.True(t, BoundTrx.CanTransmit() && BoundTrx.CanReceive())
	for _, s := range []State{Closed, Open, Binding, Unbinding} {
		assert.False(t, s.IsBound(), s.String())
		assert.False(t, s.CanTransmit(), s.String())
	}
	assert.Equal(t, "BOUND_TRX", BoundTrx.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func TestParseBindMode(t *testing.T) {
	for in, want := range map[string]BindMode{
		"tx": Transmitter, "Receiver": Receiver, " trx ": Transceiver, "": Transceiver,
	} {
		got, err := ParseBindMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBindMode("both")
	assert.Error(t, err)
	assert.Equal(t, BoundRx, Receiver.boundState())
}
