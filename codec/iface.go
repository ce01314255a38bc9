package codec

type IHead interface {
	Encode() []byte
	Decode([]byte) error
	String() string
}

type Codec interface {
	Encode() []byte
	Decode(header IHead, frame []byte) error
	String() string
}

type RequestPdu interface {
	Codec
	ToResponse(code uint32) Codec
}

// Sequence32 32位序号生成器
type Sequence32 interface {
	NextVal() int32
}
