package hlc

import (
	"sync"
	"time"
)

// Clock 代表混合逻辑时钟，是副本本地写入的时间戳来源。
// 它保证单调递增，并通过 Observe 吸收远程时间戳。
// 时间戳被打包为 int64：
//   - 高 48 位：物理时间 (毫秒)，从 Unix Epoch 开始。
//   - 低 16 位：逻辑计数器。
type Clock struct {
	mu     sync.Mutex
	latest int64 // 当前已知的最大时间戳 (packed)
	now    func() time.Time
}

const (
	logicalBits = 16
	logicalMask = 1<<logicalBits - 1
)

// Option 配置 Clock。
type Option func(*Clock)

// WithNow 替换物理时间来源，主要用于测试。
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLatest 以 latest 为起点，之后 Now 的返回值一定大于 latest。
// 重启时传入上次持久化的时间戳，避免重复发出相同的时间戳。
func WithLatest(latest int64) Option {
	return func(c *Clock) {
		if latest > c.latest {
			c.latest = latest
		}
	}
}

// New 创建一个新的 HLC 时钟。
func New(opts ...Option) *Clock {
	c := &Clock{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now 返回严格大于之前任何返回值或观察值的时间戳。
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.latest = advance(c.latest, c.now().UnixMilli())
	return c.latest
}

// Observe 吸收远程时间戳，之后 Now 的返回值一定大于 remote。
func (c *Clock) Observe(remote int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remote > c.latest {
		c.latest = remote
	}
	c.latest = advance(c.latest, c.now().UnixMilli())
}

// Latest 返回最近一次发出或观察到的时间戳，不推进时钟。
func (c *Clock) Latest() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

// advance 物理时间推进时重置逻辑计数，否则逻辑计数加一。
// 逻辑计数溢出时加法自然向物理部分进位。
func advance(latest, phys int64) int64 {
	if phys > Physical(latest) {
		return Pack(phys, 0)
	}
	return latest + 1
}

// Pack 将物理毫秒与逻辑计数打包为时间戳。
func Pack(physical int64, logical uint16) int64 {
	return physical<<logicalBits | int64(logical)
}

// Physical 返回时间戳的物理部分 (Unix Milli)。
func Physical(ts int64) int64 {
	return ts >> logicalBits
}

// Logical 返回时间戳的逻辑部分。
func Logical(ts int64) uint16 {
	return uint16(ts & logicalMask)
}
