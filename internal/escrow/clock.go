package escrow

import "time"

// Clock 时间源，返回单调不减的Unix秒级时间戳
type Clock interface {
	Now() uint64
}

// SystemClock 系统时间源
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}
