package smpp

import (
	"fmt"

	"github.com/aaronwong1989/gosmpp/codec"
)

// GenericNack 通用否定应答，sequence_number 取自出错的请求，无法解析时为 0
type GenericNack struct {
	*MessageHeader
}

func NewGenericNack(status, seq uint32) *GenericNack {
	return &GenericNack{&MessageHeader{CommandId: CmdGenericNack, CommandStatus: status, SequenceNumber: seq}}
}

func (nack *GenericNack) Encode() []byte {
	return encodeFrame(nack.MessageHeader, nil)
}

func (nack *GenericNack) Decode(header codec.IHead, frame []byte) (err error) {
	nack.MessageHeader, err = decodeHeaderOnly(header, frame, CmdGenericNack)
	return err
}

func (nack *GenericNack) String() string {
	return fmt.Sprintf("{ Header: %s }", nack.MessageHeader)
}
