package comm

import (
	"sync"
)

// MaxSequence SMPP sequence_number 取值范围 0x00000001 ~ 0x7FFFFFFF
const MaxSequence = int32(0x7FFFFFFF)

// CycleSequence 循环序号生成器，到达上限后从 1 重新开始，不会返回 0
type CycleSequence struct {
	sync.Mutex
	last int32
	max  int32
}

// NewCycleSequence 创建从 start 开始的序号生成器，max 为上限 (含)
func NewCycleSequence(start int32, max int32) *CycleSequence {
	if max <= 0 {
		max = MaxSequence
	}
	if start <= 0 || start > max {
		start = 1
	}
	return &CycleSequence{last: start - 1, max: max}
}

func (s *CycleSequence) NextVal() int32 {
	s.Lock()
	defer s.Unlock()
	if s.last >= s.max {
		s.last = 0
	}
	s.last++
	return s.last
}
