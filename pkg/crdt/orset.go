package crdt

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Tagged 是带唯一添加标签的元素。
type Tagged[T comparable] struct {
	Value T   `msgpack:"v"`
	Tag   Tag `msgpack:"t"`
}

// ORSet 实现观察-移除 (Observed-Remove) 集合。
// 每次添加产生新 Tag；删除只为当前可见的 Tag 写墓碑，
// 因此删除之后（或并发）的重新添加不受旧墓碑影响。
type ORSet[T comparable] struct {
	adds    mapset.Set[Tagged[T]]
	removes mapset.Set[Tagged[T]]
}

// NewORSet 创建一个新的 ORSet。
func NewORSet[T comparable]() *ORSet[T] {
	return &ORSet[T]{
		adds:    mapset.NewThreadUnsafeSet[Tagged[T]](),
		removes: mapset.NewThreadUnsafeSet[Tagged[T]](),
	}
}

func (s *ORSet[T]) Type() Type {
	return TypeORSet
}

// Add 以 tag 添加 value。调用方保证 tag 全局唯一，通常来自 Replica.Tag。
func (s *ORSet[T]) Add(value T, tag Tag) *ORSet[T] {
	e := Tagged[T]{Value: value, Tag: tag}
	if s.addSet().Contains(e) {
		return s
	}
	adds := s.addSet().Clone()
	adds.Add(e)
	return &ORSet[T]{adds: adds, removes: s.removeSet()}
}

// Remove 为 value 当前可见的所有 Tag 写墓碑。
// value 不可见时返回 s 本身。
func (s *ORSet[T]) Remove(value T) *ORSet[T] {
	visible := s.visible(value)
	if len(visible) == 0 {
		return s
	}
	removes := s.removeSet().Clone()
	for _, e := range visible {
		removes.Add(e)
	}
	return &ORSet[T]{adds: s.addSet(), removes: removes}
}

// Merge 与 2P-Set 相同的规则，只是以带标签的元素为键。
func (s *ORSet[T]) Merge(other *ORSet[T]) *ORSet[T] {
	adds := s.addSet().Union(other.addSet())
	return &ORSet[T]{
		adds:    adds,
		removes: liveTombstones(adds, s.removeSet(), other.removeSet()),
	}
}

func (s *ORSet[T]) Contains(value T) bool {
	found := false
	s.addSet().Each(func(e Tagged[T]) bool {
		if e.Value == value && !s.removeSet().Contains(e) {
			found = true
		}
		return found
	})
	return found
}

// Elements 返回当前存在的元素，每个值只出现一次，顺序不保证。
func (s *ORSet[T]) Elements() []T {
	seen := make(map[T]struct{})
	out := make([]T, 0)
	removes := s.removeSet()
	s.addSet().Each(func(e Tagged[T]) bool {
		if removes.Contains(e) {
			return false
		}
		if _, ok := seen[e.Value]; !ok {
			seen[e.Value] = struct{}{}
			out = append(out, e.Value)
		}
		return false
	})
	return out
}

func (s *ORSet[T]) Len() int {
	return len(s.Elements())
}

// Tags 返回 value 当前可见的 Tag，按 Tag 排序。
func (s *ORSet[T]) Tags(value T) []Tag {
	visible := s.visible(value)
	tags := make([]Tag, 0, len(visible))
	for _, e := range visible {
		tags = append(tags, e.Tag)
	}
	slices.SortFunc(tags, Tag.Compare)
	return tags
}

// Adds 返回所有带标签的添加记录。
func (s *ORSet[T]) Adds() []Tagged[T] {
	return s.addSet().ToSlice()
}

// Removes 返回所有墓碑。
func (s *ORSet[T]) Removes() []Tagged[T] {
	return s.removeSet().ToSlice()
}

func (s *ORSet[T]) Equal(other *ORSet[T]) bool {
	return s.addSet().Equal(other.addSet()) && s.removeSet().Equal(other.removeSet())
}

func (s *ORSet[T]) visible(value T) []Tagged[T] {
	var out []Tagged[T]
	removes := s.removeSet()
	s.addSet().Each(func(e Tagged[T]) bool {
		if e.Value == value && !removes.Contains(e) {
			out = append(out, e)
		}
		return false
	})
	return out
}

func (s *ORSet[T]) addSet() mapset.Set[Tagged[T]] {
	if s == nil || s.adds == nil {
		return mapset.NewThreadUnsafeSet[Tagged[T]]()
	}
	return s.adds
}

func (s *ORSet[T]) removeSet() mapset.Set[Tagged[T]] {
	if s == nil || s.removes == nil {
		return mapset.NewThreadUnsafeSet[Tagged[T]]()
	}
	return s.removes
}
