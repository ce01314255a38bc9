package session

import (
	"fmt"
	"strings"

	"github.com/aaronwong1989/gosmpp/codec/smpp"
)

// State 会话状态
// CLOSED -> OPEN -> BINDING -> BOUND_TX|BOUND_RX|BOUND_TRX -> UNBINDING -> CLOSED
type State int32

const (
	Closed State = iota
	Open
	Binding
	BoundTx
	BoundRx
	BoundTrx
	Unbinding
)

var stateNames = [...]string{"CLOSED", "OPEN", "BINDING", "BOUND_TX", "BOUND_RX", "BOUND_TRX", "UNBINDING"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int32(s))
	}
	return stateNames[s]
}

func (s State) IsBound() bool {
	return s == BoundTx || s == BoundRx || s == BoundTrx
}

// CanTransmit 可以发送 submit_sm
func (s State) CanTransmit() bool {
	return s == BoundTx || s == BoundTrx
}

// CanReceive 可以接收 deliver_sm
func (s State) CanReceive() bool {
	return s == BoundRx || s == BoundTrx
}

// BindMode 绑定方式
type BindMode int

const (
	Transmitter BindMode = iota + 1
	Receiver
	Transceiver
)

func (m BindMode) String() string {
	switch m {
	case Transmitter:
		return "transmitter"
	case Receiver:
		return "receiver"
	case Transceiver:
		return "transceiver"
	}
	return fmt.Sprintf("BindMode(%d)", int(m))
}

// ParseBindMode 支持 tx/rx/trx 及全称
func ParseBindMode(s string) (BindMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tx", "transmitter":
		return Transmitter, nil
	case "rx", "receiver":
		return Receiver, nil
	case "", "trx", "transceiver":
		return Transceiver, nil
	}
	return 0, fmt.Errorf("unknown bind mode %q", s)
}

func (m BindMode) commandId() uint32 {
	switch m {
	case Transmitter:
		return smpp.CmdBindTransmitter
	case Receiver:
		return smpp.CmdBindReceiver
	case Transceiver:
		return smpp.CmdBindTransceiver
	}
	return 0
}

func (m BindMode) boundState() State {
	switch m {
	case Transmitter:
		return BoundTx
	case Receiver:
		return BoundRx
	case Transceiver:
		return BoundTrx
	}
	return Closed
}

// BindParams bind 请求的认证参数
type BindParams struct {
	SystemId     string
	Password     string
	SystemType   string
	AddrTon      byte
	AddrNpi      byte
	AddressRange string
}
