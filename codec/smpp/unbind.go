package smpp

import (
	"fmt"

	"github.com/aaronwong1989/gosmpp/codec"
)

// Unbind 解除绑定，只有消息头
type Unbind struct {
	*MessageHeader
}

type UnbindResp struct {
	*MessageHeader
}

func NewUnbind() *Unbind {
	return &Unbind{&MessageHeader{CommandId: CmdUnbind}}
}

func (u *Unbind) Encode() []byte {
	return encodeFrame(u.MessageHeader, nil)
}

func (u *Unbind) Decode(header codec.IHead, frame []byte) (err error) {
	u.MessageHeader, err = decodeHeaderOnly(header, frame, CmdUnbind)
	return err
}

func (u *Unbind) String() string {
	return fmt.Sprintf("{ Header: %s }", u.MessageHeader)
}

func (u *Unbind) ToResponse(code uint32) codec.Codec {
	return &UnbindResp{&MessageHeader{CommandId: CmdUnbindResp, CommandStatus: code, SequenceNumber: u.SequenceNumber}}
}

func (resp *UnbindResp) Encode() []byte {
	return encodeFrame(resp.MessageHeader, nil)
}

func (resp *UnbindResp) Decode(header codec.IHead, frame []byte) (err error) {
	resp.MessageHeader, err = decodeHeaderOnly(header, frame, CmdUnbindResp)
	return err
}

func (resp *UnbindResp) String() string {
	return fmt.Sprintf("{ Header: %s }", resp.MessageHeader)
}

// decodeHeaderOnly 无报文体的报文，带多余字节视为格式错误
func decodeHeaderOnly(header codec.IHead, frame []byte, commandId uint32) (*MessageHeader, error) {
	h, err := asHeader(header)
	if err != nil {
		return nil, err
	}
	if h.CommandId != commandId {
		return nil, ErrMalformedPdu
	}
	if len(frame) != 0 {
		return nil, &FieldError{Field: "body", Reason: fmt.Sprintf("%s carries no body", CommandName(commandId))}
	}
	return h, nil
}
