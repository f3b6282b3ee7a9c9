package crdt

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// GSet 实现只增集合，合并即并集。
// 底层集合写时复制：已发布的实例从不被修改。
type GSet[T comparable] struct {
	elems mapset.Set[T]
}

// NewGSet 创建包含给定元素的 GSet。
func NewGSet[T comparable](elems ...T) *GSet[T] {
	return &GSet[T]{elems: mapset.NewThreadUnsafeSet(elems...)}
}

func (s *GSet[T]) Type() Type {
	return TypeGSet
}

// Add 返回加入 value 后的集合；value 已存在时返回 s 本身。
func (s *GSet[T]) Add(value T) *GSet[T] {
	if s.Contains(value) {
		return s
	}
	next := s.set().Clone()
	next.Add(value)
	return &GSet[T]{elems: next}
}

func (s *GSet[T]) Merge(other *GSet[T]) *GSet[T] {
	return &GSet[T]{elems: s.set().Union(other.set())}
}

func (s *GSet[T]) Contains(value T) bool {
	return s.set().Contains(value)
}

func (s *GSet[T]) Len() int {
	return s.set().Cardinality()
}

// Elements 返回所有元素，顺序不保证。
func (s *GSet[T]) Elements() []T {
	return s.set().ToSlice()
}

func (s *GSet[T]) Equal(other *GSet[T]) bool {
	return s.set().Equal(other.set())
}

func (s *GSet[T]) set() mapset.Set[T] {
	if s == nil || s.elems == nil {
		return mapset.NewThreadUnsafeSet[T]()
	}
	return s.elems
}
