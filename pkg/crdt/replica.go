package crdt

import (
	"github.com/shinyes/convergent/pkg/hlc"
)

// Replica 为一个副本提供标识与本地写入时间戳。
// Identity 在创建时确定且不再改变；时间戳来自混合逻辑时钟，严格递增。
type Replica struct {
	id    Identity
	clock *hlc.Clock
}

// NewReplica 创建带随机标识的副本。
func NewReplica(opts ...hlc.Option) *Replica {
	return NewReplicaWithID(NewIdentity(), opts...)
}

// NewReplicaWithID 用已知标识创建副本，时钟从零开始。
// 同一标识此前发出过时间戳时应使用 RestoreReplica，否则可能重复发出旧的 Tag。
func NewReplicaWithID(id Identity, opts ...hlc.Option) *Replica {
	return &Replica{id: id, clock: hlc.New(opts...)}
}

// RestoreReplica 从持久化状态恢复副本。last 是该副本此前发出的最大时间戳，
// 通常来自 Latest；之后的 Now 与 Tag 都严格大于 last。
func RestoreReplica(id Identity, last Timestamp, opts ...hlc.Option) *Replica {
	return NewReplicaWithID(id, append([]hlc.Option{hlc.WithLatest(int64(last))}, opts...)...)
}

func (r *Replica) ID() Identity {
	return r.id
}

// Now 返回下一个本地写入时间戳。
func (r *Replica) Now() Timestamp {
	return Timestamp(r.clock.Now())
}

// Latest 返回最近发出或观察到的时间戳，用于持久化后交给 RestoreReplica。
func (r *Replica) Latest() Timestamp {
	return Timestamp(r.clock.Latest())
}

// Tag 返回一个新的 OR-Set 添加标签。
// 只要同一标识的副本不从更早的时间戳重新开始，标签就不会重复。
func (r *Replica) Tag() Tag {
	return NewTag(r.id, r.Now())
}

// Observe 吸收远程时间戳，使之后的本地写入排在它之后。
func (r *Replica) Observe(ts Timestamp) {
	r.clock.Observe(int64(ts))
}
