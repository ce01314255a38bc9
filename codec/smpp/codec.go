package smpp

import (
	"encoding/binary"

	"github.com/aaronwong1989/gosmpp/codec"
)

// Pdu 所有 SMPP 报文
type Pdu interface {
	codec.Codec
	Header() *MessageHeader
}

// 需要应答的请求报文
var (
	_ codec.RequestPdu = (*Bind)(nil)
	_ codec.RequestPdu = (*SubmitSm)(nil)
	_ codec.RequestPdu = (*DeliverSm)(nil)
	_ codec.RequestPdu = (*Unbind)(nil)
	_ codec.RequestPdu = (*EnquireLink)(nil)
)

// 可接受的最大报文长度默认值
const DefaultMaxPduBytes = 64 * 1024

func newPdu(commandId uint32) Pdu {
	switch commandId {
	case CmdBindTransmitter, CmdBindReceiver, CmdBindTransceiver:
		return &Bind{}
	case CmdBindTransmitterResp, CmdBindReceiverResp, CmdBindTransceiverResp:
		return &BindResp{}
	case CmdSubmitSm:
		return &SubmitSm{}
	case CmdSubmitSmResp:
		return &SubmitSmResp{}
	case CmdDeliverSm:
		return &DeliverSm{}
	case CmdDeliverSmResp:
		return &DeliverSmResp{}
	case CmdUnbind:
		return &Unbind{}
	case CmdUnbindResp:
		return &UnbindResp{}
	case CmdEnquireLink:
		return &EnquireLink{}
	case CmdEnquireLinkResp:
		return &EnquireLinkResp{}
	case CmdGenericNack:
		return &GenericNack{}
	default:
		return &Unknown{}
	}
}

// Decode 从 buf 头部解出一个完整报文，返回报文和消耗的字节数。
// 数据不足一个报文时返回 ErrNeedMoreData 且不消耗任何字节；
// command_length 越界时返回 *FramingError，报文边界不可恢复；
// 报文体不合法时返回 *BodyError，consumed 为该报文长度，可跳过后继续解码。
func Decode(buf []byte, maxPduBytes uint32) (pdu Pdu, consumed int, err error) {
	if len(buf) < 4 {
		return nil, 0, ErrNeedMoreData
	}
	length := binary.BigEndian.Uint32(buf)
	if maxPduBytes == 0 {
		maxPduBytes = DefaultMaxPduBytes
	}
	if length < HeadLength || length > maxPduBytes {
		return nil, 0, &FramingError{Length: length, Max: maxPduBytes}
	}
	if uint32(len(buf)) < length {
		return nil, 0, ErrNeedMoreData
	}
	header := &MessageHeader{}
	_ = header.Decode(buf[:HeadLength])
	pdu = newPdu(header.CommandId)
	if err = pdu.Decode(header, buf[HeadLength:length]); err != nil {
		return nil, int(length), &BodyError{Header: header, Err: err}
	}
	return pdu, int(length), nil
}

// Encode 校验字段约束后编码，command_length 由实际长度回写
func Encode(pdu Pdu) ([]byte, error) {
	if pdu.Header() == nil {
		return nil, &FieldError{Field: "header", Reason: "missing"}
	}
	if v, ok := pdu.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}
	return pdu.Encode(), nil
}
