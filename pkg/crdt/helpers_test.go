package crdt

// ident 构造一个只有最后一个字节不同的标识，便于控制顺序。
func ident(b byte) Identity {
	var id Identity
	id[len(id)-1] = b
	return id
}

func mustIncrement(c *GCounter, owner Identity, delta int64) *GCounter {
	next, err := c.Increment(owner, delta)
	if err != nil {
		panic(err)
	}
	return next
}
