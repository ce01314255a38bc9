package smpp

import (
	"fmt"

	"github.com/panjf2000/gnet/v2/pkg/pool/bytebuffer"

	"github.com/aaronwong1989/gosmpp/codec"
)

// Unknown 未实现的命令，只解析消息头，报文体原样保留
type Unknown struct {
	*MessageHeader
	Body []byte
}

func (u *Unknown) Encode() []byte {
	return encodeFrame(u.MessageHeader, func(w *bytebuffer.ByteBuffer) {
		writeByte(w, u.Body...)
	})
}

func (u *Unknown) Decode(header codec.IHead, frame []byte) error {
	h, err := asHeader(header)
	if err != nil {
		return err
	}
	u.MessageHeader = h
	u.Body = (&bodyReader{buf: frame}).octets("body", len(frame))
	return nil
}

func (u *Unknown) String() string {
	return fmt.Sprintf("{ Header: %s, Body: %x }", u.MessageHeader, u.Body)
}
