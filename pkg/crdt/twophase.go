package crdt

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// TwoPhaseSet 实现两阶段集合 (2P-Set)。
// 元素存在当且仅当它在 adds 中且不在 removes 中；一旦进入 removes，
// 再次添加也不会恢复。
type TwoPhaseSet[T comparable] struct {
	adds    mapset.Set[T]
	removes mapset.Set[T]
}

// NewTwoPhaseSet 创建一个空的 2P-Set。
func NewTwoPhaseSet[T comparable]() *TwoPhaseSet[T] {
	return &TwoPhaseSet[T]{
		adds:    mapset.NewThreadUnsafeSet[T](),
		removes: mapset.NewThreadUnsafeSet[T](),
	}
}

func (s *TwoPhaseSet[T]) Type() Type {
	return TypeTwoPhaseSet
}

func (s *TwoPhaseSet[T]) Add(value T) *TwoPhaseSet[T] {
	if s.addSet().Contains(value) {
		return s
	}
	adds := s.addSet().Clone()
	adds.Add(value)
	return &TwoPhaseSet[T]{adds: adds, removes: s.removeSet()}
}

// Remove 记录删除意图，无论 value 当前是否在 adds 中。
// 尚未观察到的元素的墓碑会在下一次合并时被丢弃。
func (s *TwoPhaseSet[T]) Remove(value T) *TwoPhaseSet[T] {
	if s.removeSet().Contains(value) {
		return s
	}
	removes := s.removeSet().Clone()
	removes.Add(value)
	return &TwoPhaseSet[T]{adds: s.addSet(), removes: removes}
}

// Merge 合并 adds，并只保留引用了合并后 adds 中元素的墓碑。
func (s *TwoPhaseSet[T]) Merge(other *TwoPhaseSet[T]) *TwoPhaseSet[T] {
	adds := s.addSet().Union(other.addSet())
	return &TwoPhaseSet[T]{
		adds:    adds,
		removes: liveTombstones(adds, s.removeSet(), other.removeSet()),
	}
}

func (s *TwoPhaseSet[T]) Contains(value T) bool {
	return s.addSet().Contains(value) && !s.removeSet().Contains(value)
}

// Elements 返回当前存在的元素，顺序不保证。
func (s *TwoPhaseSet[T]) Elements() []T {
	return s.addSet().Difference(s.removeSet()).ToSlice()
}

func (s *TwoPhaseSet[T]) Len() int {
	return s.addSet().Difference(s.removeSet()).Cardinality()
}

// Adds 返回所有添加过的元素。
func (s *TwoPhaseSet[T]) Adds() []T {
	return s.addSet().ToSlice()
}

// Removes 返回所有墓碑。
func (s *TwoPhaseSet[T]) Removes() []T {
	return s.removeSet().ToSlice()
}

func (s *TwoPhaseSet[T]) Equal(other *TwoPhaseSet[T]) bool {
	return s.addSet().Equal(other.addSet()) && s.removeSet().Equal(other.removeSet())
}

func (s *TwoPhaseSet[T]) addSet() mapset.Set[T] {
	if s == nil || s.adds == nil {
		return mapset.NewThreadUnsafeSet[T]()
	}
	return s.adds
}

func (s *TwoPhaseSet[T]) removeSet() mapset.Set[T] {
	if s == nil || s.removes == nil {
		return mapset.NewThreadUnsafeSet[T]()
	}
	return s.removes
}

// liveTombstones 返回 a ∪ b 中出现在 adds 里的墓碑。
func liveTombstones[T comparable](adds, a, b mapset.Set[T]) mapset.Set[T] {
	out := mapset.NewThreadUnsafeSet[T]()
	keep := func(v T) bool {
		if adds.Contains(v) {
			out.Add(v)
		}
		return false
	}
	a.Each(keep)
	b.Each(keep)
	return out
}
