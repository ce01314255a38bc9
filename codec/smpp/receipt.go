package smpp

import (
	"fmt"
	"sort"
	"strings"
)

// Receipt 状态报告，内容格式为
// id:IIIIIIIIII sub:SSS dlvrd:DDD submit date:YYMMDDhhmm done date:YYMMDDhhmm stat:DDDDDDD err:E text: ...
type Receipt struct {
	Id         string
	Sub        string
	Dlvrd      string
	SubmitDate string
	DoneDate   string
	Stat       string
	Err        string
	Text       string
}

var receiptKeys = []string{"id:", "sub:", "dlvrd:", "submit date:", "done date:", "stat:", "err:"}

// Receipt 解析状态报告，非状态报告返回 false
// 报告正文缺少 id 或 stat 时使用 receipted_message_id 与 message_state 参数
func (dly *DeliverSm) Receipt() (*Receipt, bool) {
	if !dly.IsReceipt() {
		return nil, false
	}
	rt := parseReceipt(string(dly.Content()))
	if rt.Id == "" {
		if id, ok := dly.Tlvs.GetCString(TagReceiptedMessageId); ok {
			rt.Id = id
		}
	}
	if rt.Stat == "" {
		if state, ok := dly.Tlvs.GetByte(TagMessageState); ok {
			rt.Stat = MessageStateMap[state]
		}
	}
	return rt, true
}

func parseReceipt(content string) *Receipt {
	rt := &Receipt{}
	lower := asciiLower(content)
	head := lower
	if i := strings.Index(lower, "text:"); i >= 0 {
		rt.Text = strings.TrimSpace(content[i+len("text:"):])
		head = lower[:i]
	}

	type field struct {
		key string
		at  int
	}
	var fields []field
	for _, k := range receiptKeys {
		if i := strings.Index(head, k); i >= 0 {
			fields = append(fields, field{k, i})
		}
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].at < fields[j].at })
	for i, f := range fields {
		end := len(head)
		if i+1 < len(fields) {
			end = fields[i+1].at
		}
		v := strings.TrimSpace(content[f.at+len(f.key) : end])
		switch f.key {
		case "id:":
			rt.Id = v
		case "sub:":
			rt.Sub = v
		case "dlvrd:":
			rt.Dlvrd = v
		case "submit date:":
			rt.SubmitDate = v
		case "done date:":
			rt.DoneDate = v
		case "stat:":
			rt.Stat = v
		case "err:":
			rt.Err = v
		}
	}
	return rt
}

// asciiLower 只转换 ASCII 字母，保证下标与原文一致
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Delivered stat 为 DELIVRD
func (rt *Receipt) Delivered() bool {
	return strings.EqualFold(rt.Stat, "DELIVRD")
}

func (rt *Receipt) String() string {
	return fmt.Sprintf("{ id: %s, sub: %s, dlvrd: %s, submit date: %s, done date: %s, stat: %s, err: %s, text: %s }",
		rt.Id, rt.Sub, rt.Dlvrd, rt.SubmitDate, rt.DoneDate, rt.Stat, rt.Err, rt.Text)
}

// NewReceiptDeliverSm 构造一条状态报告，供模拟 SMSC 下发使用
func NewReceiptDeliverSm(src, dst string, rt *Receipt) *DeliverSm {
	dly := &DeliverSm{MessageHeader: &MessageHeader{CommandId: CmdDeliverSm}}
	dly.SourceAddr = src
	dly.DestinationAddr = dst
	dly.EsmClass = EsmClassReceipt
	dly.SetContent([]byte(fmt.Sprintf("id:%s sub:%s dlvrd:%s submit date:%s done date:%s stat:%s err:%s text:%s",
		rt.Id, rt.Sub, rt.Dlvrd, rt.SubmitDate, rt.DoneDate, rt.Stat, rt.Err, rt.Text)))
	dly.Tlvs.Set(NewTlvCString(TagReceiptedMessageId, rt.Id))
	return dly
}
