package crdt

import (
	"errors"
	"fmt"
	"strings"
)

// Type 标识 CRDT 的类型。
type Type byte

const (
	TypeGCounter    Type = 0x01
	TypePNCounter   Type = 0x02
	TypeLWW         Type = 0x03
	TypeGSet        Type = 0x04
	TypeTwoPhaseSet Type = 0x05
	TypeORSet       Type = 0x06

	// TypeOp 标识 Op 的编码，它不是快照类型。
	TypeOp Type = 0x10
)

func (t Type) String() string {
	switch t {
	case TypeGCounter:
		return "gcounter"
	case TypePNCounter:
		return "pncounter"
	case TypeLWW:
		return "lww"
	case TypeGSet:
		return "gset"
	case TypeTwoPhaseSet:
		return "2pset"
	case TypeORSet:
		return "orset"
	case TypeOp:
		return "op"
	default:
		return fmt.Sprintf("type(%d)", byte(t))
	}
}

var (
	// ErrInvalidDelta 计数器收到负的增量。
	ErrInvalidDelta = errors.New("计数器增量不能为负数")
	// ErrInvalidData 快照数据无法解码。
	ErrInvalidData = errors.New("无效的 CRDT 数据")
	// ErrCounterOverflow 单个副本的计数贡献超出 int64。
	ErrCounterOverflow = errors.New("计数器溢出")
)

// CRDT 是所有状态型 CRDT 的通用约束。
// Merge 必须满足交换律、结合律与幂等性，并返回新实例而不修改任一操作数。
type CRDT[S any] interface {
	// Type 返回 CRDT 的类型。
	Type() Type

	// Merge 返回两个状态的最小上界。
	Merge(other S) S

	// Equal 按结构比较两个状态。
	Equal(other S) bool

	// Bytes 将 CRDT 状态序列化为字节。
	Bytes() ([]byte, error)
}

// InvalidDeltaError 记录被拒绝的计数器增量。
type InvalidDeltaError struct {
	Owner Identity
	Delta int64
}

func (e *InvalidDeltaError) Error() string {
	return fmt.Sprintf("%s: 副本 %s, 增量 %d", ErrInvalidDelta.Error(), e.Owner, e.Delta)
}

func (e *InvalidDeltaError) Unwrap() error {
	return ErrInvalidDelta
}

// CounterOverflowError 记录会使副本贡献溢出的增量。
type CounterOverflowError struct {
	Owner   Identity
	Current int64
	Delta   int64
}

func (e *CounterOverflowError) Error() string {
	return fmt.Sprintf("%s: 副本 %s, 当前 %d, 增量 %d", ErrCounterOverflow.Error(), e.Owner, e.Current, e.Delta)
}

func (e *CounterOverflowError) Unwrap() error {
	return ErrCounterOverflow
}

// InvalidDataError 描述解码失败的快照。
// DataLength 为负数时不输出长度。
type InvalidDataError struct {
	CRDTType   Type
	Reason     string
	DataLength int
}

// NewInvalidDataError 创建不带数据长度的 InvalidDataError。
func NewInvalidDataError(t Type, reason string) *InvalidDataError {
	return &InvalidDataError{CRDTType: t, Reason: reason, DataLength: -1}
}

func (e *InvalidDataError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: 类型 %d", ErrInvalidData.Error(), byte(e.CRDTType))
	if e.Reason != "" {
		fmt.Fprintf(&b, ", 原因: %s", e.Reason)
	}
	if e.DataLength >= 0 {
		fmt.Fprintf(&b, ", 数据长度: %d", e.DataLength)
	}
	return b.String()
}

func (e *InvalidDataError) Unwrap() error {
	return ErrInvalidData
}
