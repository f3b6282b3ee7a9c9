package store

import (
	"fmt"

	"github.com/shinyes/convergent/pkg/crdt"
	"github.com/vmihailenco/msgpack/v5"
)

// Record 是持久化包装：(id, value, updatedBy, timestamp)。
// Value 是 CRDT 快照的字节形式，Type 用于加载时校验。
type Record struct {
	ID        string         `msgpack:"id"`
	Type      crdt.Type      `msgpack:"type"`
	Value     []byte         `msgpack:"value"`
	UpdatedBy crdt.Identity  `msgpack:"by"`
	Timestamp crdt.Timestamp `msgpack:"ts"`
}

// Snapshot 是可以被存储的 CRDT 状态。
type Snapshot interface {
	Type() crdt.Type
	Bytes() ([]byte, error)
}

// NewRecord 序列化 snapshot 并包装为 Record。
func NewRecord(id string, snapshot Snapshot, updatedBy crdt.Identity, ts crdt.Timestamp) (Record, error) {
	value, err := snapshot.Bytes()
	if err != nil {
		return Record{}, fmt.Errorf("序列化 %s 快照 %q 失败: %w", snapshot.Type(), id, err)
	}
	return Record{
		ID:        id,
		Type:      snapshot.Type(),
		Value:     value,
		UpdatedBy: updatedBy,
		Timestamp: ts,
	}, nil
}

func (r Record) encode() ([]byte, error) {
	return msgpack.Marshal(&r)
}

func decodeRecord(data []byte) (Record, error) {
	var r Record
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("%w: 解码记录失败: %v", crdt.ErrInvalidData, err)
	}
	return r, nil
}

// Decode 校验类型后用 decode 还原快照。
func Decode[S Snapshot](r Record, want crdt.Type, decode func([]byte) (S, error)) (S, error) {
	var zero S
	if r.Type != want {
		return zero, fmt.Errorf("%w: 记录 %q 是 %s, 期望 %s", ErrTypeMismatch, r.ID, r.Type, want)
	}
	return decode(r.Value)
}
