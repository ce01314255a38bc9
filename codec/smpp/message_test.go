package smpp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeText(t *testing.T) {
	cases := []struct {
		text   string
		coding byte
		data   []byte
	}{
		{"hello", CodingDefault, []byte("hello")},
		{"café", CodingLatin1, []byte{'c', 'a', 'f', 0xE9}},
		{"你好", CodingUCS2, []byte{0x4F, 0x60, 0x59, 0x7D}},
	}
	for _, c := range cases {
		coding, data := EncodeText(c.text)
		assert.Equal(t, c.coding, coding, c.text)
		assert.Equal(t, c.data, data, c.text)
		assert.Equal(t, c.text, DecodeText(coding, data))
	}
}

func TestMessagePayload(t *testing.T) {
	text := strings.Repeat("a", 300)
	sub := NewSubmitSm("441234", "449876", text)
	assert.Nil(t, sub.ShortMessage)
	tlv, ok := sub.Tlvs.Get(TagMessagePayload)
	require.True(t, ok)
	assert.Len(t, tlv.Value, 300)

	got := roundTrip(t, sub).(*SubmitSm)
	assert.Equal(t, text, got.Text())

	// 内容变短后 message_payload 被移除
	sub.SetContent([]byte("short"))
	_, ok = sub.Tlvs.Get(TagMessagePayload)
	assert.False(t, ok)
	assert.Equal(t, "short", sub.Text())
}

func TestTlvs(t *testing.T) {
	var ts Tlvs
	ts.Set(NewTlvUint16(TagUserMessageReference, 0x0102))
	ts.Set(NewTlvCString(TagReceiptedMessageId, "abc"))
	ts.Set(NewTlvUint16(TagUserMessageReference, 0x0304))
	require.Len(t, ts, 2)
	v, _ := ts.Get(TagUserMessageReference)
	assert.Equal(t, []byte{3, 4}, v.Value)
	id, ok := ts.GetCString(TagReceiptedMessageId)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
	_, ok = ts.GetByte(TagMessageState)
	assert.False(t, ok)

	ts.Del(TagUserMessageReference)
	ts.Del(TagReceiptedMessageId)
	assert.Nil(t, ts)
	assert.Equal(t, "tlv_0x1401", TlvName(0x1401))
}

func TestSplit(t *testing.T) {
	sub := NewSubmitSm("1", "2", strings.Repeat("a", 400))
	sub.RegisteredDelivery = RegisteredDeliveryYes
	parts := sub.Split()
	require.Len(t, parts, 3)
	ref := parts[0].ShortMessage[3]
	for i, p := range parts {
		assert.Equal(t, EsmClassUDHI, p.EsmClass&EsmClassUDHI)
		assert.Equal(t, RegisteredDeliveryYes, p.RegisteredDelivery)
		_, ok := p.Tlvs.Get(TagMessagePayload)
		assert.False(t, ok)
		assert.Equal(t, []byte{0x05, 0x00, 0x03, ref, 3, byte(i + 1)}, p.ShortMessage[:6])
		require.NoError(t, p.Validate())
	}
	assert.Equal(t, strings.Repeat("a", 153), parts[0].Text())
	assert.Equal(t, strings.Repeat("a", 94), parts[2].Text())

	ucs := NewSubmitSm("1", "2", strings.Repeat("中", 100))
	parts = ucs.Split()
	require.Len(t, parts, 2)
	assert.Equal(t, strings.Repeat("中", 67), parts[0].Text())
	assert.Equal(t, strings.Repeat("中", 33), parts[1].Text())

	short := NewSubmitSm("1", "2", "hello")
	assert.Equal(t, []*SubmitSm{short}, short.Split())
}

func TestReceipt(t *testing.T) {
	rt := &Receipt{
		Id: "abc123", Sub: "001", Dlvrd: "001", SubmitDate: "2401011200", DoneDate: "2401011201",
		Stat: "DELIVRD", Err: "000", Text: "hello world",
	}
	dly := NewReceiptDeliverSm("449876", "441234", rt)
	dly.SequenceNumber = 1
	got := roundTrip(t, dly).(*DeliverSm)
	require.True(t, got.IsReceipt())
	parsed, ok := got.Receipt()
	require.True(t, ok)
	assert.Equal(t, rt, parsed)
	assert.True(t, parsed.Delivered())

	// 正文缺少字段时使用 TLV
	dly = &DeliverSm{MessageHeader: &MessageHeader{CommandId: CmdDeliverSm}}
	dly.EsmClass = EsmClassReceipt
	dly.SetContent([]byte("ID:xyz Stat:UNDELIV"))
	parsed, ok = dly.Receipt()
	require.True(t, ok)
	assert.Equal(t, "xyz", parsed.Id)
	assert.Equal(t, "UNDELIV", parsed.Stat)

	dly.SetContent(nil)
	dly.Tlvs.Set(NewTlvCString(TagReceiptedMessageId, "m-1"))
	dly.Tlvs.Set(NewTlvByte(TagMessageState, StateExpired))
	parsed, ok = dly.Receipt()
	require.True(t, ok)
	assert.Equal(t, "m-1", parsed.Id)
	assert.Equal(t, "EXPIRED", parsed.Stat)

	mo := NewDeliverSm("1", "2", "id:not-a-receipt")
	_, ok = mo.Receipt()
	assert.False(t, ok)
}
