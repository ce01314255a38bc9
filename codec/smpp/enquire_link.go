package smpp

import (
	"fmt"

	"github.com/aaronwong1989/gosmpp/codec"
)

// EnquireLink 链路检测
type EnquireLink struct {
	*MessageHeader
}

type EnquireLinkResp struct {
	*MessageHeader
}

func NewEnquireLink() *EnquireLink {
	return &EnquireLink{&MessageHeader{CommandId: CmdEnquireLink}}
}

func (el *EnquireLink) Encode() []byte {
	return encodeFrame(el.MessageHeader, nil)
}

func (el *EnquireLink) Decode(header codec.IHead, frame []byte) (err error) {
	el.MessageHeader, err = decodeHeaderOnly(header, frame, CmdEnquireLink)
	return err
}

func (el *EnquireLink) String() string {
	return fmt.Sprintf("{ Header: %s }", el.MessageHeader)
}

func (el *EnquireLink) ToResponse(code uint32) codec.Codec {
	return &EnquireLinkResp{&MessageHeader{CommandId: CmdEnquireLinkResp, CommandStatus: code, SequenceNumber: el.SequenceNumber}}
}

func (resp *EnquireLinkResp) Encode() []byte {
	return encodeFrame(resp.MessageHeader, nil)
}

func (resp *EnquireLinkResp) Decode(header codec.IHead, frame []byte) (err error) {
	resp.MessageHeader, err = decodeHeaderOnly(header, frame, CmdEnquireLinkResp)
	return err
}

func (resp *EnquireLinkResp) String() string {
	return fmt.Sprintf("{ Header: %s }", resp.MessageHeader)
}
