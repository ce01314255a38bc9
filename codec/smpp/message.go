package smpp

import (
	"fmt"

	"github.com/panjf2000/gnet/v2/pkg/pool/bytebuffer"
)

// esm_class 常用取值
const (
	EsmClassDefault      = byte(0x00)
	EsmClassReceipt      = byte(0x04) // SMSC Delivery Receipt
	EsmClassUDHI         = byte(0x40) // short_message 带 UDH 头
	esmClassMessageType  = byte(0x3C)
	RegisteredDeliveryNo = byte(0x00)
	// RegisteredDeliveryYes 无论成功失败均要求状态报告
	RegisteredDeliveryYes = byte(0x01)
)

// Message submit_sm 与 deliver_sm 共用的报文体
type Message struct {
	ServiceType          string // C-Octet String, max 6
	SourceAddrTon        byte
	SourceAddrNpi        byte
	SourceAddr           string // C-Octet String, max 21
	DestAddrTon          byte
	DestAddrNpi          byte
	DestinationAddr      string // C-Octet String, max 21
	EsmClass             byte
	ProtocolId           byte
	PriorityFlag         byte
	ScheduleDeliveryTime string // C-Octet String, 0 或 17
	ValidityPeriod       string // C-Octet String, 0 或 17
	RegisteredDelivery   byte
	ReplaceIfPresentFlag byte
	DataCoding           byte
	SmDefaultMsgId       byte
	ShortMessage         []byte // 最长 254 字节，sm_length 按实际长度写出
	Tlvs                 Tlvs
}

// NewMessage 按内容自动选择 data_coding
func NewMessage(src, dst, text string) Message {
	m := Message{SourceAddr: src, DestinationAddr: dst}
	coding, data := EncodeText(text)
	m.DataCoding = coding
	m.SetContent(data)
	return m
}

// SetContent 超过 254 字节的内容放入 message_payload，short_message 置空
func (m *Message) SetContent(content []byte) {
	m.Tlvs.Del(TagMessagePayload)
	if len(content) > MaxShortMessage {
		m.ShortMessage = nil
		m.Tlvs.Set(Tlv{Tag: TagMessagePayload, Value: content})
		return
	}
	m.ShortMessage = content
}

// Content 返回 short_message 或 message_payload
func (m *Message) Content() []byte {
	if len(m.ShortMessage) > 0 {
		return m.ShortMessage
	}
	if t, ok := m.Tlvs.Get(TagMessagePayload); ok {
		return t.Value
	}
	return nil
}

// Text 按 data_coding 解码内容，带 UDH 头时跳过头部
func (m *Message) Text() string {
	content := m.Content()
	if m.EsmClass&EsmClassUDHI != 0 && len(content) > 0 {
		udhl := int(content[0]) + 1
		if udhl <= len(content) {
			content = content[udhl:]
		}
	}
	return DecodeText(m.DataCoding, content)
}

func (m *Message) Validate() error {
	for _, f := range []struct {
		name string
		v    string
		max  int
	}{
		{"service_type", m.ServiceType, maxServiceType},
		{"source_addr", m.SourceAddr, maxAddr},
		{"destination_addr", m.DestinationAddr, maxAddr},
		{"schedule_delivery_time", m.ScheduleDeliveryTime, maxTime},
		{"validity_period", m.ValidityPeriod, maxTime},
	} {
		if err := checkCString(f.name, f.v, f.max); err != nil {
			return err
		}
	}
	if len(m.ShortMessage) > MaxShortMessage {
		return &FieldError{Field: "short_message", Reason: "longer than 254, use message_payload"}
	}
	if _, ok := m.Tlvs.Get(TagMessagePayload); ok && len(m.ShortMessage) > 0 {
		return &FieldError{Field: "message_payload", Reason: "short_message and message_payload are mutually exclusive"}
	}
	return m.Tlvs.validate()
}

func (m *Message) write(w *bytebuffer.ByteBuffer) {
	writeCString(w, m.ServiceType)
	writeByte(w, m.SourceAddrTon, m.SourceAddrNpi)
	writeCString(w, m.SourceAddr)
	writeByte(w, m.DestAddrTon, m.DestAddrNpi)
	writeCString(w, m.DestinationAddr)
	writeByte(w, m.EsmClass, m.ProtocolId, m.PriorityFlag)
	writeCString(w, m.ScheduleDeliveryTime)
	writeCString(w, m.ValidityPeriod)
	writeByte(w, m.RegisteredDelivery, m.ReplaceIfPresentFlag, m.DataCoding, m.SmDefaultMsgId)
	writeByte(w, byte(len(m.ShortMessage)))
	writeByte(w, m.ShortMessage...)
	writeTlvs(w, m.Tlvs)
}

func (m *Message) read(r *bodyReader) {
	m.ServiceType = r.cString("service_type", maxServiceType)
	m.SourceAddrTon = r.byte("source_addr_ton")
	m.SourceAddrNpi = r.byte("source_addr_npi")
	m.SourceAddr = r.cString("source_addr", maxAddr)
	m.DestAddrTon = r.byte("dest_addr_ton")
	m.DestAddrNpi = r.byte("dest_addr_npi")
	m.DestinationAddr = r.cString("destination_addr", maxAddr)
	m.EsmClass = r.byte("esm_class")
	m.ProtocolId = r.byte("protocol_id")
	m.PriorityFlag = r.byte("priority_flag")
	m.ScheduleDeliveryTime = r.cString("schedule_delivery_time", maxTime)
	m.ValidityPeriod = r.cString("validity_period", maxTime)
	m.RegisteredDelivery = r.byte("registered_delivery")
	m.ReplaceIfPresentFlag = r.byte("replace_if_present_flag")
	m.DataCoding = r.byte("data_coding")
	m.SmDefaultMsgId = r.byte("sm_default_msg_id")
	smLength := r.byte("sm_length")
	m.ShortMessage = r.octets("short_message", int(smLength))
	m.Tlvs = r.tlvs()
}

func (m *Message) String() string {
	return fmt.Sprintf("ServiceType: %s, Source: %d/%d/%s, Destination: %d/%d/%s, EsmClass: %#x, ProtocolId: %d, PriorityFlag: %d, "+
		"ScheduleDeliveryTime: %s, ValidityPeriod: %s, RegisteredDelivery: %d, DataCoding: %#x, SmLength: %d, ShortMessage: %x, Tlvs: %v",
		m.ServiceType, m.SourceAddrTon, m.SourceAddrNpi, m.SourceAddr, m.DestAddrTon, m.DestAddrNpi, m.DestinationAddr,
		m.EsmClass, m.ProtocolId, m.PriorityFlag, m.ScheduleDeliveryTime, m.ValidityPeriod, m.RegisteredDelivery,
		m.DataCoding, len(m.ShortMessage), m.ShortMessage, m.Tlvs)
}
