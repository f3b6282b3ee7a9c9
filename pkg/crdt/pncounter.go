package crdt

// PNCounter 实现正负计数器：一对独立合并的 GCounter。
type PNCounter struct {
	inc *GCounter
	dec *GCounter
}

// NewPNCounter 创建一个新的 PNCounter。
func NewPNCounter() *PNCounter {
	return &PNCounter{inc: NewGCounter(), dec: NewGCounter()}
}

func (c *PNCounter) Type() Type {
	return TypePNCounter
}

// Increment 在增量计数器上记录 owner 的 delta。
func (c *PNCounter) Increment(owner Identity, delta int64) (*PNCounter, error) {
	inc, err := c.Additions().Increment(owner, delta)
	if err != nil {
		return nil, err
	}
	return &PNCounter{inc: inc, dec: c.Subtractions()}, nil
}

// Decrement 在减量计数器上记录 owner 的 delta，delta 本身必须非负。
func (c *PNCounter) Decrement(owner Identity, delta int64) (*PNCounter, error) {
	dec, err := c.Subtractions().Increment(owner, delta)
	if err != nil {
		return nil, err
	}
	return &PNCounter{inc: c.Additions(), dec: dec}, nil
}

func (c *PNCounter) Merge(other *PNCounter) *PNCounter {
	return &PNCounter{
		inc: c.Additions().Merge(other.Additions()),
		dec: c.Subtractions().Merge(other.Subtractions()),
	}
}

// Value 返回增量总和减去减量总和，可能为负。
func (c *PNCounter) Value() int64 {
	return c.Additions().Total() - c.Subtractions().Total()
}

// Additions 返回增量部分。返回的 GCounter 不可变，可安全共享。
func (c *PNCounter) Additions() *GCounter {
	if c == nil || c.inc == nil {
		return NewGCounter()
	}
	return c.inc
}

// Subtractions 返回减量部分。
func (c *PNCounter) Subtractions() *GCounter {
	if c == nil || c.dec == nil {
		return NewGCounter()
	}
	return c.dec
}

func (c *PNCounter) Equal(other *PNCounter) bool {
	return c.Additions().Equal(other.Additions()) &&
		c.Subtractions().Equal(other.Subtractions())
}
