package crdt

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// LWWRegister 实现最后写入胜出 (Last-Write-Wins) 寄存器。
// 实例之间的全序为 (timestamp 降序, updatedBy 升序)：时间戳大者胜，
// 时间戳相同时标识较小者胜。并发写入中落败的一方会被永久丢弃。
type LWWRegister[T comparable] struct {
	value     T
	timestamp Timestamp
	updatedBy Identity
}

// NewLWWRegister 创建一个寄存器实例。它不读取任何先前状态。
func NewLWWRegister[T comparable](value T, ts Timestamp, updatedBy Identity) *LWWRegister[T] {
	return &LWWRegister[T]{
		value:     value,
		timestamp: ts,
		updatedBy: updatedBy,
	}
}

func (r *LWWRegister[T]) Type() Type {
	return TypeLWW
}

func (r *LWWRegister[T]) Value() T {
	if r == nil {
		var zero T
		return zero
	}
	return r.value
}

func (r *LWWRegister[T]) Timestamp() Timestamp {
	if r == nil {
		return 0
	}
	return r.timestamp
}

func (r *LWWRegister[T]) UpdatedBy() Identity {
	if r == nil {
		return Identity{}
	}
	return r.updatedBy
}

// Set 返回以新值替换后的寄存器，等价于 NewLWWRegister。
func (r *LWWRegister[T]) Set(value T, ts Timestamp, updatedBy Identity) *LWWRegister[T] {
	return NewLWWRegister(value, ts, updatedBy)
}

// Newer 报告 r 是否在全序上严格胜过 other。
func (r *LWWRegister[T]) Newer(other *LWWRegister[T]) bool {
	return r.compare(other) > 0
}

// Merge 返回胜出的一方，从不混合两边的值。
func (r *LWWRegister[T]) Merge(other *LWWRegister[T]) *LWWRegister[T] {
	if other == nil {
		return r
	}
	if r == nil {
		return other
	}
	if r.compare(other) >= 0 {
		return r
	}
	return other
}

func (r *LWWRegister[T]) Equal(other *LWWRegister[T]) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.timestamp == other.timestamp &&
		r.updatedBy == other.updatedBy &&
		r.value == other.value
}

// compare 返回 1 表示 r 胜出。
// 时间戳与标识都相同但值不同时（同一副本在同一时刻写了两次），
// 比较值的 msgpack 编码；编码失败或编码相同时再比较 %#v 形式，
// 保证任何副本得到相同结果。两种形式都相同的不同值 (如 NaN) 视为相等。
func (r *LWWRegister[T]) compare(other *LWWRegister[T]) int {
	switch {
	case other == nil:
		return 1
	case r == nil:
		return -1
	case r.timestamp > other.timestamp:
		return 1
	case r.timestamp < other.timestamp:
		return -1
	}
	if c := r.updatedBy.Compare(other.updatedBy); c != 0 {
		return -c
	}
	if r.value == other.value {
		return 0
	}
	a, errA := msgpack.Marshal(r.value)
	b, errB := msgpack.Marshal(other.value)
	if errA == nil && errB == nil {
		if c := bytes.Compare(a, b); c != 0 {
			return -c
		}
	}
	return -strings.Compare(fmt.Sprintf("%#v", r.value), fmt.Sprintf("%#v", other.value))
}
