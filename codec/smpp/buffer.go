package smpp

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/panjf2000/gnet/v2/pkg/pool/bytebuffer"
)

// C-Octet String 最大长度 (含结尾 NUL)
const (
	maxSystemId     = 16
	maxPassword     = 9
	maxSystemType   = 13
	maxAddressRange = 41
	maxServiceType  = 6
	maxAddr         = 21
	maxTime         = 17
	maxMessageId    = 65
	// MaxShortMessage short_message 最大字节数，超过时使用 message_payload
	MaxShortMessage = 254
)

// encodeFrame 在池化缓冲中写入报文头和报文体，返回独立的报文帧
func encodeFrame(header *MessageHeader, body func(w *bytebuffer.ByteBuffer)) []byte {
	w := bytebuffer.Get()
	defer bytebuffer.Put(w)
	w.B = append(w.B, make([]byte, HeadLength)...)
	if body != nil {
		body(w)
	}
	header.CommandLength = uint32(len(w.B))
	header.put(w.B[0:HeadLength])
	frame := make([]byte, len(w.B))
	copy(frame, w.B)
	return frame
}

func writeCString(w *bytebuffer.ByteBuffer, s string) {
	w.B = append(w.B, s...)
	w.B = append(w.B, 0)
}

func writeByte(w *bytebuffer.ByteBuffer, b ...byte) {
	w.B = append(w.B, b...)
}

func writeTlvs(w *bytebuffer.ByteBuffer, tlvs []Tlv) {
	for _, tlv := range tlvs {
		w.B = binary.BigEndian.AppendUint16(w.B, tlv.Tag)
		w.B = binary.BigEndian.AppendUint16(w.B, uint16(len(tlv.Value)))
		w.B = append(w.B, tlv.Value...)
	}
}

// bodyReader 顺序读取报文体，出现第一个错误后后续读取均返回零值
type bodyReader struct {
	buf []byte
	off int
	err error
}

func (r *bodyReader) fail(field, reason string) {
	if r.err == nil {
		r.err = &FieldError{Field: field, Reason: reason}
	}
}

func (r *bodyReader) remaining() int {
	return len(r.buf) - r.off
}

func (r *bodyReader) cString(field string, max int) string {
	if r.err != nil {
		return ""
	}
	i := bytes.IndexByte(r.buf[r.off:], 0)
	if i < 0 {
		r.fail(field, "c-string not NUL terminated")
		return ""
	}
	if i+1 > max {
		r.fail(field, "c-string too long")
		return ""
	}
	s := string(r.buf[r.off : r.off+i])
	r.off += i + 1
	return s
}

func (r *bodyReader) byte(field string) byte {
	if r.err != nil {
		return 0
	}
	if r.remaining() < 1 {
		r.fail(field, "truncated")
		return 0
	}
	b := r.buf[r.off]
	r.off++
	return b
}

func (r *bodyReader) uint16(field string) uint16 {
	if r.err != nil {
		return 0
	}
	if r.remaining() < 2 {
		r.fail(field, "truncated")
		return 0
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v
}

// octets 读取 n 字节并复制，避免引用读缓冲
func (r *bodyReader) octets(field string, n int) []byte {
	if r.err != nil {
		return nil
	}
	if n > r.remaining() {
		r.fail(field, "declared length exceeds remaining body")
		return nil
	}
	if n == 0 {
		return nil
	}
	v := make([]byte, n)
	copy(v, r.buf[r.off:r.off+n])
	r.off += n
	return v
}

func (r *bodyReader) tlvs() []Tlv {
	var tlvs []Tlv
	for r.err == nil && r.remaining() > 0 {
		if r.remaining() < 4 {
			r.fail("tlv", "truncated tlv header")
			break
		}
		tag := r.uint16("tlv.tag")
		l := r.uint16("tlv.length")
		value := r.octets(TlvName(tag), int(l))
		if r.err != nil {
			break
		}
		tlvs = append(tlvs, Tlv{Tag: tag, Value: value})
	}
	return tlvs
}

// finish 报文体必须被完整消费
func (r *bodyReader) finish() error {
	if r.err == nil && r.remaining() > 0 {
		r.fail("body", "unexpected trailing bytes")
	}
	return r.err
}

func checkCString(field, s string, max int) error {
	if strings.IndexByte(s, 0) >= 0 {
		return &FieldError{Field: field, Reason: "contains NUL"}
	}
	if len(s)+1 > max {
		return &FieldError{Field: field, Reason: "c-string too long"}
	}
	return nil
}
