package crdt

import (
	"maps"
	"math"
	"slices"
)

// CounterElement 是某个副本对计数器的累计贡献。
type CounterElement struct {
	Owner     Identity `msgpack:"o"`
	Magnitude int64    `msgpack:"m"`
}

// GCounter 实现只增计数器。
// 实例不可变：Increment 与 Merge 都返回新实例。nil 等价于空计数器。
type GCounter struct {
	counts map[Identity]int64
}

// NewGCounter 创建一个空的 GCounter。
func NewGCounter() *GCounter {
	return &GCounter{counts: make(map[Identity]int64)}
}

func (c *GCounter) Type() Type {
	return TypeGCounter
}

// Increment 返回 owner 的贡献增加 delta 后的新计数器。
// 单个副本的贡献超过 math.MaxInt64 时返回 *CounterOverflowError。
func (c *GCounter) Increment(owner Identity, delta int64) (*GCounter, error) {
	if delta < 0 {
		return nil, &InvalidDeltaError{Owner: owner, Delta: delta}
	}
	if cur := c.Get(owner); delta > math.MaxInt64-cur {
		return nil, &CounterOverflowError{Owner: owner, Current: cur, Delta: delta}
	}
	next := c.clone(1)
	next.counts[owner] += delta
	return next, nil
}

// Merge 对每个副本取贡献的最大值。
func (c *GCounter) Merge(other *GCounter) *GCounter {
	next := c.clone(other.Len())
	for owner, v := range other.entries() {
		if cur, ok := next.counts[owner]; !ok || v > cur {
			next.counts[owner] = v
		}
	}
	return next
}

// Total 返回所有贡献之和，超过 math.MaxInt64 时饱和为 math.MaxInt64。
func (c *GCounter) Total() int64 {
	var total int64
	for _, v := range c.entries() {
		if v > math.MaxInt64-total {
			return math.MaxInt64
		}
		total += v
	}
	return total
}

// Get 返回 owner 的贡献；从未递增过的副本返回 0。
func (c *GCounter) Get(owner Identity) int64 {
	return c.entries()[owner]
}

func (c *GCounter) Len() int {
	return len(c.entries())
}

// Elements 按 owner 升序返回所有贡献。
func (c *GCounter) Elements() []CounterElement {
	out := make([]CounterElement, 0, c.Len())
	for owner, v := range c.entries() {
		out = append(out, CounterElement{Owner: owner, Magnitude: v})
	}
	slices.SortFunc(out, func(a, b CounterElement) int {
		return a.Owner.Compare(b.Owner)
	})
	return out
}

func (c *GCounter) Equal(other *GCounter) bool {
	return maps.Equal(c.entries(), other.entries())
}

func (c *GCounter) entries() map[Identity]int64 {
	if c == nil {
		return nil
	}
	return c.counts
}

func (c *GCounter) clone(extra int) *GCounter {
	src := c.entries()
	next := &GCounter{counts: make(map[Identity]int64, len(src)+extra)}
	maps.Copy(next.counts, src)
	return next
}

// gcounterFromElements 从解码后的元素重建计数器，同一 owner 重复出现时取最大值。
func gcounterFromElements(elems []CounterElement) (*GCounter, error) {
	c := &GCounter{counts: make(map[Identity]int64, len(elems))}
	for _, e := range elems {
		if e.Magnitude < 0 {
			return nil, &InvalidDeltaError{Owner: e.Owner, Delta: e.Magnitude}
		}
		if cur, ok := c.counts[e.Owner]; !ok || e.Magnitude > cur {
			c.counts[e.Owner] = e.Magnitude
		}
	}
	return c, nil
}
