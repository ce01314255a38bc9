package smpp

import (
	"encoding/binary"
	"fmt"
)

// Tlv 可选参数 {tag:u16, length:u16, value}
type Tlv struct {
	Tag   uint16
	Value []byte
}

const (
	TagDestAddrSubunit      = uint16(0x0005)
	TagSourceAddrSubunit    = uint16(0x000D)
	TagReceiptedMessageId   = uint16(0x001E)
	TagUserMessageReference = uint16(0x0204)
	TagSourcePort           = uint16(0x020A)
	TagDestinationPort      = uint16(0x020B)
	TagSarMsgRefNum         = uint16(0x020C)
	TagSarTotalSegments     = uint16(0x020E)
	TagSarSegmentSeqnum     = uint16(0x020F)
	TagScInterfaceVersion   = uint16(0x0210)
	TagMessagePayload       = uint16(0x0424)
	TagMessageState         = uint16(0x0427)
	TagNetworkErrorCode     = uint16(0x0423)
)

var TlvMap = map[uint16]string{
	TagDestAddrSubunit:      "dest_addr_subunit",
	TagSourceAddrSubunit:    "source_addr_subunit",
	TagReceiptedMessageId:   "receipted_message_id",
	TagUserMessageReference: "user_message_reference",
	TagSourcePort:           "source_port",
	TagDestinationPort:      "destination_port",
	TagSarMsgRefNum:         "sar_msg_ref_num",
	TagSarTotalSegments:     "sar_total_segments",
	TagSarSegmentSeqnum:     "sar_segment_seqnum",
	TagScInterfaceVersion:   "sc_interface_version",
	TagMessagePayload:       "message_payload",
	TagMessageState:         "message_state",
	TagNetworkErrorCode:     "network_error_code",
}

// message_state 取值
const (
	StateEnroute       = byte(1)
	StateDelivered     = byte(2)
	StateExpired       = byte(3)
	StateDeleted       = byte(4)
	StateUndeliverable = byte(5)
	StateAccepted      = byte(6)
	StateUnknown       = byte(7)
	StateRejected      = byte(8)
)

var MessageStateMap = map[byte]string{
	StateEnroute:       "ENROUTE",
	StateDelivered:     "DELIVRD",
	StateExpired:       "EXPIRED",
	StateDeleted:       "DELETED",
	StateUndeliverable: "UNDELIV",
	StateAccepted:      "ACCEPTD",
	StateUnknown:       "UNKNOWN",
	StateRejected:      "REJECTD",
}

func TlvName(tag uint16) string {
	if name, ok := TlvMap[tag]; ok {
		return name
	}
	return fmt.Sprintf("tlv_0x%04x", tag)
}

func NewTlvByte(tag uint16, v byte) Tlv {
	return Tlv{Tag: tag, Value: []byte{v}}
}

func NewTlvUint16(tag uint16, v uint16) Tlv {
	return Tlv{Tag: tag, Value: binary.BigEndian.AppendUint16(nil, v)}
}

// NewTlvCString 以 NUL 结尾的字符串参数，如 receipted_message_id
func NewTlvCString(tag uint16, s string) Tlv {
	return Tlv{Tag: tag, Value: append([]byte(s), 0)}
}

func (t Tlv) String() string {
	return fmt.Sprintf("%s=%x", TlvName(t.Tag), t.Value)
}

// Tlvs 可选参数列表
type Tlvs []Tlv

func (ts Tlvs) Get(tag uint16) (Tlv, bool) {
	for _, t := range ts {
		if t.Tag == tag {
			return t, true
		}
	}
	return Tlv{}, false
}

// Set 替换已有的同名参数，不存在时追加
func (ts *Tlvs) Set(tlv Tlv) {
	for i, t := range *ts {
		if t.Tag == tlv.Tag {
			(*ts)[i] = tlv
			return
		}
	}
	*ts = append(*ts, tlv)
}

func (ts *Tlvs) Del(tag uint16) {
	out := (*ts)[:0]
	for _, t := range *ts {
		if t.Tag != tag {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		out = nil
	}
	*ts = out
}

func (ts Tlvs) GetByte(tag uint16) (byte, bool) {
	t, ok := ts.Get(tag)
	if !ok || len(t.Value) != 1 {
		return 0, false
	}
	return t.Value[0], true
}

func (ts Tlvs) GetCString(tag uint16) (string, bool) {
	t, ok := ts.Get(tag)
	if !ok {
		return "", false
	}
	v := t.Value
	if n := len(v); n > 0 && v[n-1] == 0 {
		v = v[:n-1]
	}
	return string(v), true
}

func (ts Tlvs) validate() error {
	for _, t := range ts {
		if len(t.Value) > 0xFFFF {
			return &FieldError{Field: TlvName(t.Tag), Reason: "value longer than 65535"}
		}
	}
	return nil
}
