package crdt

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Identity 是副本的唯一标识（128 位）。
// 只作为确定性的平局裁决依据，不表达因果关系。
type Identity [16]byte

// NewIdentity 生成一个随机的副本标识。
func NewIdentity() Identity {
	return Identity(uuid.New())
}

// ParseIdentity 解析标准 uuid 格式的标识。
func ParseIdentity(s string) (Identity, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Identity{}, fmt.Errorf("解析副本标识 %q 失败: %w", s, err)
	}
	return Identity(u), nil
}

// Compare 按原始字节比较两个标识。
func (id Identity) Compare(other Identity) int {
	return bytes.Compare(id[:], other[:])
}

func (id Identity) Less(other Identity) bool {
	return id.Compare(other) < 0
}

func (id Identity) IsZero() bool {
	return id == Identity{}
}

// Hash 返回原始字节的 xxhash64。
func (id Identity) Hash() uint64 {
	return xxhash.Sum64(id[:])
}

func (id Identity) String() string {
	return uuid.UUID(id).String()
}

func (id Identity) MarshalBinary() ([]byte, error) {
	b := make([]byte, len(id))
	copy(b, id[:])
	return b, nil
}

func (id *Identity) UnmarshalBinary(data []byte) error {
	if len(data) != len(id) {
		return fmt.Errorf("副本标识长度必须为 %d, 得到 %d", len(id), len(data))
	}
	copy(id[:], data)
	return nil
}

func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identity) UnmarshalText(data []byte) error {
	parsed, err := ParseIdentity(string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Timestamp 是逻辑时间戳，越大越新。
// 不同副本的时间戳之间不假设同步，相等时用 Identity 裁决。
type Timestamp int64

// Tag 唯一标识一次 OR-Set 添加操作。
// 同一副本的时间戳严格递增时，Tag 在所有副本间唯一。
type Tag struct {
	Replica Identity  `msgpack:"r"`
	Clock   Timestamp `msgpack:"c"`
}

// NewTag 创建一个 Tag。
func NewTag(replica Identity, clock Timestamp) Tag {
	return Tag{Replica: replica, Clock: clock}
}

// Compare 先比较副本标识，再比较时钟。
func (t Tag) Compare(other Tag) int {
	if c := t.Replica.Compare(other.Replica); c != 0 {
		return c
	}
	switch {
	case t.Clock < other.Clock:
		return -1
	case t.Clock > other.Clock:
		return 1
	}
	return 0
}

func (t Tag) String() string {
	return fmt.Sprintf("%s@%d", t.Replica, t.Clock)
}
