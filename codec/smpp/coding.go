package smpp

import (
	"golang.org/x/text/encoding/charmap"

	"github.com/aaronwong1989/gosmpp/comm"
)

// data_coding 取值
const (
	CodingDefault = byte(0x00) // SMSC 默认字母表，这里按 ASCII 处理
	CodingIA5     = byte(0x01)
	CodingBinary  = byte(0x02)
	CodingLatin1  = byte(0x03)
	CodingBinary8 = byte(0x04)
	CodingUCS2    = byte(0x08)
)

// EncodeText 纯 ASCII 使用 0，Latin-1 可表示时使用 3，其余使用 UCS2
func EncodeText(text string) (coding byte, data []byte) {
	ascii := true
	for i := 0; i < len(text); i++ {
		if text[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return CodingDefault, []byte(text)
	}
	if latin, err := charmap.ISO8859_1.NewEncoder().String(text); err == nil {
		return CodingLatin1, []byte(latin)
	}
	return CodingUCS2, comm.Ucs2Encode(text)
}

func DecodeText(coding byte, data []byte) string {
	switch coding {
	case CodingUCS2:
		return comm.Ucs2Decode(data)
	case CodingLatin1:
		s, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return string(data)
		}
		return string(s)
	default:
		return string(data)
	}
}

// SegmentSize 单条短信 (不带 UDH) 可容纳的字节数
func SegmentSize(coding byte) int {
	if coding == CodingDefault || coding == CodingIA5 {
		return 160
	}
	return 140
}
