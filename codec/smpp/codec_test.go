package smpp

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronwong1989/gosmpp/codec"
)

func roundTrip(t *testing.T, pdu Pdu) Pdu {
	frame, err := Encode(pdu)
	require.NoError(t, err)
	assert.Equal(t, uint32(len(frame)), binary.BigEndian.Uint32(frame[0:4]), "command_length must equal the frame size")

	got, n, err := Decode(frame, 0)
	require.NoError(t, err)
	assert.Equal(t, len(frame), n)
	assert.Equal(t, pdu, got)
	t.Logf("%s", got)
	return got
}

func TestRoundTrip(t *testing.T) {
	bind := NewBind(CmdBindTransceiver, "user1", "pw")
	bind.SequenceNumber = 1
	bind.SystemType = "OTA"
	bind.AddressRange = "^44"
	roundTrip(t, bind)

	bindResp := bind.ToResponse(StatusOK).(*BindResp)
	bindResp.SystemId = "SMSC"
	bindResp.Tlvs = Tlvs{NewTlvByte(TagScInterfaceVersion, InterfaceVersion)}
	roundTrip(t, bindResp)

	sub := NewSubmitSm("441234", "449876", "hello")
	sub.SequenceNumber = 2
	sub.RegisteredDelivery = RegisteredDeliveryYes
	sub.ValidityPeriod = "000001000000000R"
	roundTrip(t, sub)

	subResp := sub.ToResponse(StatusOK).(*SubmitSmResp)
	subResp.MessageId = "abc123"
	roundTrip(t, subResp)

	dly := NewDeliverSm("449876", "441234", "hi back")
	dly.SequenceNumber = 7
	roundTrip(t, dly)
	roundTrip(t, dly.ToResponse(StatusOK).(*DeliverSmResp))

	unbind := NewUnbind()
	unbind.SequenceNumber = 3
	roundTrip(t, unbind)
	roundTrip(t, unbind.ToResponse(StatusOK).(*UnbindResp))

	el := NewEnquireLink()
	el.SequenceNumber = 0x7FFFFFFF
	roundTrip(t, el)
	roundTrip(t, el.ToResponse(StatusOK).(*EnquireLinkResp))

	roundTrip(t, NewGenericNack(StatusInvCmdId, 9))
}

func TestToResponse(t *testing.T) {
	bind := NewBind(CmdBindReceiver, "u", "p")
	bind.SequenceNumber = 42
	resp := bind.ToResponse(StatusBindFail).(*BindResp)
	assert.Equal(t, CmdBindReceiverResp, resp.CommandId)
	assert.Equal(t, StatusBindFail, resp.CommandStatus)
	assert.Equal(t, uint32(42), resp.SequenceNumber)
	assert.True(t, IsResponse(resp.CommandId))
	assert.False(t, IsResponse(bind.CommandId))
}

func TestRequestResponses(t *testing.T) {
	requests := []codec.RequestPdu{
		NewBind(CmdBindTransceiver, "u", "p"),
		NewSubmitSm("1", "2", "x"),
		NewDeliverSm("2", "1", "y"),
		NewUnbind(),
		NewEnquireLink(),
	}
	for i, req := range requests {
		h := req.(Pdu).Header()
		h.SequenceNumber = uint32(100 + i)
		resp, ok := req.ToResponse(StatusOK).(Pdu)
		require.True(t, ok, CommandName(h.CommandId))
		assert.Equal(t, ResponseOf(h.CommandId), resp.Header().CommandId)
		assert.Equal(t, h.SequenceNumber, resp.Header().SequenceNumber)

		decoded, n, err := Decode(resp.Encode(), 0)
		require.NoError(t, err, CommandName(h.CommandId))
		assert.Equal(t, int(decoded.Header().CommandLength), n)
	}
}

func TestErrorResponseWithoutBody(t *testing.T) {
	// 失败的 bind_resp 与 submit_sm_resp 可以不带报文体
	for _, id := range []uint32{CmdBindTransmitterResp, CmdSubmitSmResp} {
		h := &MessageHeader{CommandId: id, CommandStatus: StatusInvPaswd, SequenceNumber: 5}
		frame := h.Encode()
		pdu, n, err := Decode(frame, 0)
		require.NoError(t, err)
		assert.Equal(t, HeadLength, n)
		assert.Equal(t, StatusInvPaswd, pdu.Header().CommandStatus)
	}
}

func TestDecodeNeedMoreData(t *testing.T) {
	sub := NewSubmitSm("1", "2", "partial frames are never consumed")
	frame := sub.Encode()

	for _, cut := range []int{0, 3, 4, HeadLength, len(frame) - 1} {
		pdu, n, err := Decode(frame[:cut], 0)
		assert.ErrorIs(t, err, ErrNeedMoreData, "cut=%d", cut)
		assert.Nil(t, pdu)
		assert.Equal(t, 0, n)
	}
}

func TestDecodeStream(t *testing.T) {
	el := NewEnquireLink()
	el.SequenceNumber = 1
	sub := NewSubmitSm("1", "2", "x")
	sub.SequenceNumber = 2
	buf := append(el.Encode(), sub.Encode()...)
	buf = append(buf, 0, 0) // 下一报文的前两个字节

	var got []Pdu
	for {
		pdu, n, err := Decode(buf, 0)
		if errors.Is(err, ErrNeedMoreData) {
			break
		}
		require.NoError(t, err)
		got = append(got, pdu)
		buf = buf[n:]
	}
	require.Len(t, got, 2)
	assert.Equal(t, uint32(1), got[0].Header().SequenceNumber)
	assert.IsType(t, &SubmitSm{}, got[1])
	assert.Len(t, buf, 2)
}

func TestDecodeFramingError(t *testing.T) {
	frame := make([]byte, HeadLength)
	binary.BigEndian.PutUint32(frame, 1<<20)
	binary.BigEndian.PutUint32(frame[4:], CmdSubmitSm)

	pdu, n, err := Decode(frame, 4096)
	assert.Nil(t, pdu)
	assert.Equal(t, 0, n)
	var fe *FramingError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, uint32(1<<20), fe.Length)
	assert.ErrorIs(t, err, ErrMalformedPdu)

	// 长度小于报文头
	binary.BigEndian.PutUint32(frame, 8)
	_, _, err = Decode(frame, 4096)
	require.ErrorAs(t, err, &fe)

	// 只有长度字段也能判定越界
	binary.BigEndian.PutUint32(frame, 70000)
	_, _, err = Decode(frame[:4], 0)
	require.ErrorAs(t, err, &fe)
}

func bodyFrame(commandId, seq uint32, body []byte) []byte {
	h := &MessageHeader{CommandLength: uint32(HeadLength + len(body)), CommandId: commandId, SequenceNumber: seq}
	return append(h.Encode(), body...)
}

func TestDecodeBodyError(t *testing.T) {
	cases := map[string][]byte{
		// system_id 没有 NUL 结尾
		"unterminated": bodyFrame(CmdBindTransmitter, 11, []byte("abc")),
		// system_id 超过 16 字节
		"too long": bodyFrame(CmdBindTransmitter, 11, append([]byte("0123456789abcdefXYZ"), 0, 0, 0, 0x34, 0, 0, 0)),
		// enquire_link 不应带报文体
		"header only": bodyFrame(CmdEnquireLink, 11, []byte{1}),
		// sm_length 超过剩余报文体
		"sm_length": bodyFrame(CmdSubmitSm, 11, append([]byte{0, 0, 0, '1', 0, 0, 0, '2', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 10}, "abc"...)),
		// TLV 长度超过剩余报文体
		"tlv": bodyFrame(CmdSubmitSmResp, 11, []byte{'i', 'd', 0, 0x04, 0x24, 0x00, 0x09, 'x'}),
	}
	for name, frame := range cases {
		t.Run(name, func(t *testing.T) {
			pdu, n, err := Decode(frame, 0)
			assert.Nil(t, pdu)
			assert.Equal(t, len(frame), n, "a body error still consumes the whole frame")
			var be *BodyError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, uint32(11), be.Header.SequenceNumber)
			assert.ErrorIs(t, err, ErrMalformedPdu)
			var fe *FieldError
			assert.ErrorAs(t, err, &fe)
			t.Logf("%v", err)
		})
	}
}

func TestDecodeUnknownCommand(t *testing.T) {
	frame := bodyFrame(CmdDataSm, 3, []byte{1, 2, 3})
	pdu, n, err := Decode(frame, 0)
	require.NoError(t, err)
	assert.Equal(t, len(frame), n)
	u, ok := pdu.(*Unknown)
	require.True(t, ok)
	assert.Equal(t, CmdDataSm, u.CommandId)
	assert.Equal(t, []byte{1, 2, 3}, u.Body)
	assert.Equal(t, frame, u.Encode())
	assert.Equal(t, "DATA_SM", CommandName(u.CommandId))
	assert.Equal(t, "0x00001234", CommandName(0x1234))
}

func TestDecodeDoesNotAlias(t *testing.T) {
	sub := NewSubmitSm("1", "2", "hello")
	frame := sub.Encode()
	pdu, _, err := Decode(frame, 0)
	require.NoError(t, err)
	for i := range frame {
		frame[i] = 0xFF
	}
	assert.Equal(t, "hello", string(pdu.(*SubmitSm).ShortMessage))
}

func TestEncodeValidate(t *testing.T) {
	bind := NewBind(CmdBindTransmitter, "a-system-id-too-long", "pw")
	_, err := Encode(bind)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "system_id", fe.Field)

	bind = NewBind(CmdSubmitSm, "u", "p")
	_, err = Encode(bind)
	assert.Error(t, err)

	sub := NewSubmitSm("1", "2", "")
	sub.ShortMessage = make([]byte, 255)
	_, err = Encode(sub)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "short_message", fe.Field)

	sub = NewSubmitSm("1", "2", "x")
	sub.Tlvs.Set(Tlv{Tag: TagMessagePayload, Value: []byte("y")})
	_, err = Encode(sub)
	assert.Error(t, err)

	sub = NewSubmitSm("1", "2\x00", "x")
	_, err = Encode(sub)
	assert.Error(t, err)

	_, err = Encode(&SubmitSm{})
	assert.Error(t, err)
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "ESME_ROK", StatusName(StatusOK))
	assert.Equal(t, "ESME_RTHROTTLED", StatusName(StatusThrottled))
	assert.Equal(t, "0x00000400", StatusName(0x400))
}
