package smpp

import (
	"fmt"

	"github.com/panjf2000/gnet/v2/pkg/pool/bytebuffer"

	"github.com/aaronwong1989/gosmpp/codec"
)

type DeliverSm struct {
	*MessageHeader
	Message
}

type DeliverSmResp struct {
	*MessageHeader
	MessageId string // 未使用，固定为空串
}

func NewDeliverSm(src, dst, text string) *DeliverSm {
	return &DeliverSm{
		MessageHeader: &MessageHeader{CommandId: CmdDeliverSm},
		Message:       NewMessage(src, dst, text),
	}
}

func (dly *DeliverSm) Encode() []byte {
	return encodeFrame(dly.MessageHeader, dly.Message.write)
}

func (dly *DeliverSm) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	if h.CommandId != CmdDeliverSm {
		return ErrMalformedPdu
	}
	dly.MessageHeader = h
	r := &bodyReader{buf: frame}
	dly.Message.read(r)
	return r.finish()
}

// IsReceipt esm_class 的消息类型位为 SMSC Delivery Receipt
func (dly *DeliverSm) IsReceipt() bool {
	return dly.EsmClass&esmClassMessageType == EsmClassReceipt
}

func (dly *DeliverSm) String() string {
	return fmt.Sprintf("{ Header: %s, %s }", dly.MessageHeader, dly.Message.String())
}

func (dly *DeliverSm) ToResponse(code uint32) codec.Codec {
	resp := &DeliverSmResp{}
	resp.MessageHeader = &MessageHeader{
		CommandId:      CmdDeliverSmResp,
		CommandStatus:  code,
		SequenceNumber: dly.SequenceNumber,
	}
	return resp
}

func (resp *DeliverSmResp) Encode() []byte {
	return encodeFrame(resp.MessageHeader, func(w *bytebuffer.ByteBuffer) {
		writeCString(w, resp.MessageId)
	})
}

func (resp *DeliverSmResp) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	resp.MessageHeader = h
	if len(frame) == 0 {
		return nil
	}
	r := &bodyReader{buf: frame}
	resp.MessageId = r.cString("message_id", maxMessageId)
	return r.finish()
}

func (resp *DeliverSmResp) Validate() error {
	return checkCString("message_id", resp.MessageId, maxMessageId)
}

func (resp *DeliverSmResp) String() string {
	return fmt.Sprintf("{ Header: %s, MessageId: %s }", resp.MessageHeader, resp.MessageId)
}
