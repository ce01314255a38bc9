package smpp

import (
	"encoding/binary"
	"fmt"

	"github.com/aaronwong1989/gosmpp/codec"
)

type MessageHeader struct {
	CommandLength  uint32
	CommandId      uint32
	CommandStatus  uint32
	SequenceNumber uint32
}

func (header *MessageHeader) Encode() []byte {
	if header.CommandLength < HeadLength {
		header.CommandLength = HeadLength
	}
	frame := make([]byte, HeadLength)
	header.put(frame)
	return frame
}

func (header *MessageHeader) put(frame []byte) {
	binary.BigEndian.PutUint32(frame[0:4], header.CommandLength)
	binary.BigEndian.PutUint32(frame[4:8], header.CommandId)
	binary.BigEndian.PutUint32(frame[8:12], header.CommandStatus)
	binary.BigEndian.PutUint32(frame[12:16], header.SequenceNumber)
}

func (header *MessageHeader) Decode(frame []byte) error {
	if len(frame) < HeadLength {
		return ErrMalformedPdu
	}
	header.CommandLength = binary.BigEndian.Uint32(frame[0:4])
	header.CommandId = binary.BigEndian.Uint32(frame[4:8])
	header.CommandStatus = binary.BigEndian.Uint32(frame[8:12])
	header.SequenceNumber = binary.BigEndian.Uint32(frame[12:16])
	return nil
}

// Header 供内嵌 *MessageHeader 的报文直接取得消息头
func (header *MessageHeader) Header() *MessageHeader {
	return header
}

func (header *MessageHeader) String() string {
	return fmt.Sprintf("{ CommandLength: %d, CommandId: %s, CommandStatus: %s, SequenceNumber: %d }",
		header.CommandLength, CommandName(header.CommandId), StatusName(header.CommandStatus), header.SequenceNumber)
}

// asHeader 解码时取出具体的消息头
func asHeader(h codec.IHead) (*MessageHeader, error) {
	header, ok := h.(*MessageHeader)
	if !ok || header == nil {
		return nil, ErrMalformedPdu
	}
	return header, nil
}

// IsResponse 响应报文的 command_id 最高位为 1
func IsResponse(commandId uint32) bool {
	return commandId&0x80000000 != 0
}

// ResponseOf 请求报文对应的响应 command_id
func ResponseOf(commandId uint32) uint32 {
	return commandId | 0x80000000
}

func CommandName(commandId uint32) string {
	if name, ok := CommandMap[commandId]; ok {
		return name
	}
	return fmt.Sprintf("0x%08x", commandId)
}

const (
	HeadLength = 16 // 报文头长度

	InterfaceVersion = 0x34 // SMPP v3.4

	CmdGenericNack         = uint32(0x80000000) // 通用否定应答
	CmdBindReceiver        = uint32(0x00000001) // 以接收方式绑定
	CmdBindReceiverResp    = uint32(0x80000001) // 以接收方式绑定应答
	CmdBindTransmitter     = uint32(0x00000002) // 以发送方式绑定
	CmdBindTransmitterResp = uint32(0x80000002) // 以发送方式绑定应答
	CmdSubmitSm            = uint32(0x00000004) // 提交短信
	CmdSubmitSmResp        = uint32(0x80000004) // 提交短信应答
	CmdDeliverSm           = uint32(0x00000005) // 短信下发
	CmdDeliverSmResp       = uint32(0x80000005) // 短信下发应答
	CmdUnbind              = uint32(0x00000006) // 解除绑定
	CmdUnbindResp          = uint32(0x80000006) // 解除绑定应答
	CmdBindTransceiver     = uint32(0x00000009) // 以收发方式绑定
	CmdBindTransceiverResp = uint32(0x80000009) // 以收发方式绑定应答
	CmdEnquireLink         = uint32(0x00000015) // 链路检测
	CmdEnquireLinkResp     = uint32(0x80000015) // 链路检测应答
	// 以下命令只识别名称，报文体按未知报文处理
	CmdQuerySm           = uint32(0x00000003)
	CmdQuerySmResp       = uint32(0x80000003)
	CmdReplaceSm         = uint32(0x00000007)
	CmdReplaceSmResp     = uint32(0x80000007)
	CmdCancelSm          = uint32(0x00000008)
	CmdCancelSmResp      = uint32(0x80000008)
	CmdOutbind           = uint32(0x0000000B)
	CmdSubmitMulti       = uint32(0x00000021)
	CmdSubmitMultiResp   = uint32(0x80000021)
	CmdAlertNotification = uint32(0x00000102)
	CmdDataSm            = uint32(0x00000103)
	CmdDataSmResp        = uint32(0x80000103)
)

var CommandMap = make(map[uint32]string)

func init() {
	CommandMap[CmdGenericNack] = "GENERIC_NACK"
	CommandMap[CmdBindReceiver] = "BIND_RECEIVER"
	CommandMap[CmdBindReceiverResp] = "BIND_RECEIVER_RESP"
	CommandMap[CmdBindTransmitter] = "BIND_TRANSMITTER"
	CommandMap[CmdBindTransmitterResp] = "BIND_TRANSMITTER_RESP"
	CommandMap[CmdSubmitSm] = "SUBMIT_SM"
	CommandMap[CmdSubmitSmResp] = "SUBMIT_SM_RESP"
	CommandMap[CmdDeliverSm] = "DELIVER_SM"
	CommandMap[CmdDeliverSmResp] = "DELIVER_SM_RESP"
	CommandMap[CmdUnbind] = "UNBIND"
	CommandMap[CmdUnbindResp] = "UNBIND_RESP"
	CommandMap[CmdBindTransceiver] = "BIND_TRANSCEIVER"
	CommandMap[CmdBindTransceiverResp] = "BIND_TRANSCEIVER_RESP"
	CommandMap[CmdEnquireLink] = "ENQUIRE_LINK"
	CommandMap[CmdEnquireLinkResp] = "ENQUIRE_LINK_RESP"
	CommandMap[CmdQuerySm] = "QUERY_SM"
	CommandMap[CmdQuerySmResp] = "QUERY_SM_RESP"
	CommandMap[CmdReplaceSm] = "REPLACE_SM"
	CommandMap[CmdReplaceSmResp] = "REPLACE_SM_RESP"
	CommandMap[CmdCancelSm] = "CANCEL_SM"
	CommandMap[CmdCancelSmResp] = "CANCEL_SM_RESP"
	CommandMap[CmdOutbind] = "OUTBIND"
	CommandMap[CmdSubmitMulti] = "SUBMIT_MULTI"
	CommandMap[CmdSubmitMultiResp] = "SUBMIT_MULTI_RESP"
	CommandMap[CmdAlertNotification] = "ALERT_NOTIFICATION"
	CommandMap[CmdDataSm] = "DATA_SM"
	CommandMap[CmdDataSmResp] = "DATA_SM_RESP"
}
