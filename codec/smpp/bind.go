package smpp

import (
	"fmt"

	"github.com/panjf2000/gnet/v2/pkg/pool/bytebuffer"

	"github.com/aaronwong1989/gosmpp/codec"
)

// Bind bind_transmitter / bind_receiver / bind_transceiver 共用同一报文体
type Bind struct {
	*MessageHeader
	SystemId         string // C-Octet String, max 16
	Password         string // C-Octet String, max 9
	SystemType       string // C-Octet String, max 13
	InterfaceVersion byte
	AddrTon          byte
	AddrNpi          byte
	AddressRange     string // C-Octet String, max 41
}

type BindResp struct {
	*MessageHeader
	SystemId string
	Tlvs     Tlvs
}

// IsBind 是否为三种 bind 请求之一
func IsBind(commandId uint32) bool {
	return commandId == CmdBindTransmitter || commandId == CmdBindReceiver || commandId == CmdBindTransceiver
}

func NewBind(commandId uint32, systemId, password string) *Bind {
	return &Bind{
		MessageHeader:    &MessageHeader{CommandId: commandId},
		SystemId:         systemId,
		Password:         password,
		InterfaceVersion: InterfaceVersion,
	}
}

func (b *Bind) Encode() []byte {
	return encodeFrame(b.MessageHeader, func(w *bytebuffer.ByteBuffer) {
		writeCString(w, b.SystemId)
		writeCString(w, b.Password)
		writeCString(w, b.SystemType)
		writeByte(w, b.InterfaceVersion, b.AddrTon, b.AddrNpi)
		writeCString(w, b.AddressRange)
	})
}

func (b *Bind) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	if !IsBind(h.CommandId) {
		return ErrMalformedPdu
	}
	r := &bodyReader{buf: frame}
	b.MessageHeader = h
	b.SystemId = r.cString("system_id", maxSystemId)
	b.Password = r.cString("password", maxPassword)
	b.SystemType = r.cString("system_type", maxSystemType)
	b.InterfaceVersion = r.byte("interface_version")
	b.AddrTon = r.byte("addr_ton")
	b.AddrNpi = r.byte("addr_npi")
	b.AddressRange = r.cString("address_range", maxAddressRange)
	return r.finish()
}

func (b *Bind) Validate() error {
	if !IsBind(b.CommandId) {
		return &FieldError{Field: "command_id", Reason: "not a bind command"}
	}
	for _, f := range []struct {
		name string
		v    string
		max  int
	}{
		{"system_id", b.SystemId, maxSystemId},
		{"password", b.Password, maxPassword},
		{"system_type", b.SystemType, maxSystemType},
		{"address_range", b.AddressRange, maxAddressRange},
	} {
		if err := checkCString(f.name, f.v, f.max); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bind) String() string {
	return fmt.Sprintf("{ Header: %s, SystemId: %s, Password: ***, SystemType: %s, InterfaceVersion: %#x, AddrTon: %d, AddrNpi: %d, AddressRange: %s }",
		b.MessageHeader, b.SystemId, b.SystemType, b.InterfaceVersion, b.AddrTon, b.AddrNpi, b.AddressRange)
}

func (b *Bind) ToResponse(code uint32) codec.Codec {
	resp := &BindResp{}
	resp.MessageHeader = &MessageHeader{
		CommandId:      ResponseOf(b.CommandId),
		CommandStatus:  code,
		SequenceNumber: b.SequenceNumber,
	}
	return resp
}

func (resp *BindResp) Encode() []byte {
	return encodeFrame(resp.MessageHeader, func(w *bytebuffer.ByteBuffer) {
		writeCString(w, resp.SystemId)
		writeTlvs(w, resp.Tlvs)
	})
}

func (resp *BindResp) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	resp.MessageHeader = h
	// 绑定失败时 SMSC 可以不带报文体
	if len(frame) == 0 && h.CommandStatus != StatusOK {
		return nil
	}
	r := &bodyReader{buf: frame}
	resp.SystemId = r.cString("system_id", maxSystemId)
	resp.Tlvs = r.tlvs()
	return r.finish()
}

func (resp *BindResp) Validate() error {
	if err := checkCString("system_id", resp.SystemId, maxSystemId); err != nil {
		return err
	}
	return resp.Tlvs.validate()
}

func (resp *BindResp) String() string {
	return fmt.Sprintf("{ Header: %s, SystemId: %s, Tlvs: %v }", resp.MessageHeader, resp.SystemId, resp.Tlvs)
}
