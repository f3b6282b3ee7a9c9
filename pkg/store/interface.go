package store

import (
	"errors"
)

var (
	// ErrKeyNotFound 键不存在。
	ErrKeyNotFound = errors.New("key not found")
	// ErrTypeMismatch 已存储快照的 CRDT 类型与请求的类型不一致。
	ErrTypeMismatch = errors.New("crdt type mismatch")
)

// KV 是快照层使用的底层存储，BadgerStore 是默认实现。
type KV interface {
	Close() error

	// View 执行只读事务。
	View(fn func(Tx) error) error

	// Update 执行读写事务，fn 返回错误时整个事务回滚。
	Update(fn func(Tx) error) error
}

// Tx 代表事务。
type Tx interface {
	// Get 获取键的值，键不存在时返回 ErrKeyNotFound。
	Get(key []byte) ([]byte, error)

	Set(key, value []byte) error

	Delete(key []byte) error

	// Scan 按键升序遍历带 prefix 的键值对，fn 返回 false 时停止。
	Scan(prefix []byte, fn func(key, value []byte) bool) error
}
