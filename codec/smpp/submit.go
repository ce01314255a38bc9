package smpp

import (
	"fmt"

	"github.com/panjf2000/gnet/v2/pkg/pool/bytebuffer"

	"github.com/aaronwong1989/gosmpp/codec"
	"github.com/aaronwong1989/gosmpp/comm"
)

type SubmitSm struct {
	*MessageHeader
	Message
}

type SubmitSmResp struct {
	*MessageHeader
	MessageId string // C-Octet String, max 65
}

func NewSubmitSm(src, dst, text string) *SubmitSm {
	return &SubmitSm{
		MessageHeader: &MessageHeader{CommandId: CmdSubmitSm},
		Message:       NewMessage(src, dst, text),
	}
}

func (sub *SubmitSm) Encode() []byte {
	return encodeFrame(sub.MessageHeader, sub.Message.write)
}

func (sub *SubmitSm) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	if h.CommandId != CmdSubmitSm {
		return ErrMalformedPdu
	}
	sub.MessageHeader = h
	r := &bodyReader{buf: frame}
	sub.Message.read(r)
	return r.finish()
}

func (sub *SubmitSm) String() string {
	return fmt.Sprintf("{ Header: %s, %s }", sub.MessageHeader, sub.Message.String())
}

func (sub *SubmitSm) ToResponse(code uint32) codec.Codec {
	resp := &SubmitSmResp{}
	resp.MessageHeader = &MessageHeader{
		CommandId:      CmdSubmitSmResp,
		CommandStatus:  code,
		SequenceNumber: sub.SequenceNumber,
	}
	return resp
}

// Split 内容超过单条容量时拆分为带 UDH 头的多条 submit_sm，否则原样返回
func (sub *SubmitSm) Split() []*SubmitSm {
	content := sub.Content()
	size := SegmentSize(sub.DataCoding)
	if len(content) <= size || sub.EsmClass&EsmClassUDHI != 0 {
		return []*SubmitSm{sub}
	}
	pkgLen := 140
	if size == 160 {
		pkgLen = 159
	}
	slices := comm.ToTPUDHISlices(content, pkgLen)
	parts := make([]*SubmitSm, 0, len(slices))
	for _, s := range slices {
		part := &SubmitSm{MessageHeader: &MessageHeader{CommandId: CmdSubmitSm}, Message: sub.Message}
		part.Tlvs = nil
		for _, t := range sub.Tlvs {
			if t.Tag != TagMessagePayload {
				part.Tlvs = append(part.Tlvs, t)
			}
		}
		part.EsmClass |= EsmClassUDHI
		part.ShortMessage = s
		parts = append(parts, part)
	}
	return parts
}

func (resp *SubmitSmResp) Encode() []byte {
	return encodeFrame(resp.MessageHeader, func(w *bytebuffer.ByteBuffer) {
		writeCString(w, resp.MessageId)
	})
}

func (resp *SubmitSmResp) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	resp.MessageHeader = h
	// 错误应答可以不带 message_id
	if len(frame) == 0 && h.CommandStatus != StatusOK {
		return nil
	}
	r := &bodyReader{buf: frame}
	resp.MessageId = r.cString("message_id", maxMessageId)
	return r.finish()
}

func (resp *SubmitSmResp) Validate() error {
	return checkCString("message_id", resp.MessageId, maxMessageId)
}

func (resp *SubmitSmResp) String() string {
	return fmt.Sprintf("{ Header: %s, MessageId: %s }", resp.MessageHeader, resp.MessageId)
}
