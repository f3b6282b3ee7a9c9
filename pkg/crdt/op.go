package crdt

import (
	"github.com/vmihailenco/msgpack/v5"
)

// Op 是在传输层上携带单次更新的包装：(timestamp, updatedBy, value)。
// Value 对本包不透明，只会原样传给 Set / Add。
type Op[V comparable] struct {
	Timestamp Timestamp `msgpack:"ts"`
	UpdatedBy Identity  `msgpack:"by"`
	Value     V         `msgpack:"v"`
}

// Register 把更新转换为寄存器实例，通常随后与本地寄存器合并。
func (op Op[V]) Register() *LWWRegister[V] {
	return NewLWWRegister(op.Value, op.Timestamp, op.UpdatedBy)
}

// Tag 返回这次更新对应的 OR-Set 添加标签。
func (op Op[V]) Tag() Tag {
	return NewTag(op.UpdatedBy, op.Timestamp)
}

func (op Op[V]) Bytes() ([]byte, error) {
	return msgpack.Marshal(&op)
}

// FromBytesOp 反序列化 Op，失败时返回 CRDTType 为 TypeOp 的 *InvalidDataError。
func FromBytesOp[V comparable](data []byte) (Op[V], error) {
	var op Op[V]
	if err := decode(TypeOp, data, &op); err != nil {
		return Op[V]{}, err
	}
	return op, nil
}
