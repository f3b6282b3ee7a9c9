package crdt

import (
	"github.com/vmihailenco/msgpack/v5"
)

// 快照的线上格式。集合以切片编码，避免依赖 msgpack 的 map 键类型。

type gcounterWire struct {
	Elements []CounterElement `msgpack:"e"`
}

type pncounterWire struct {
	Inc []CounterElement `msgpack:"p"`
	Dec []CounterElement `msgpack:"n"`
}

type lwwWire[T comparable] struct {
	Value     T         `msgpack:"v"`
	Timestamp Timestamp `msgpack:"ts"`
	UpdatedBy Identity  `msgpack:"by"`
}

type gsetWire[T comparable] struct {
	Elements []T `msgpack:"e"`
}

type twoPhaseWire[T comparable] struct {
	Adds    []T `msgpack:"a"`
	Removes []T `msgpack:"r"`
}

type orsetWire[T comparable] struct {
	Adds    []Tagged[T] `msgpack:"a"`
	Removes []Tagged[T] `msgpack:"r"`
}

func decode(t Type, data []byte, v any) error {
	if data == nil {
		return &InvalidDataError{CRDTType: t, Reason: "输入数据为 nil", DataLength: 0}
	}
	if len(data) == 0 {
		return &InvalidDataError{CRDTType: t, Reason: "输入数据为空", DataLength: 0}
	}
	if err := msgpack.Unmarshal(data, v); err != nil {
		return &InvalidDataError{CRDTType: t, Reason: err.Error(), DataLength: len(data)}
	}
	return nil
}

func (c *GCounter) Bytes() ([]byte, error) {
	return msgpack.Marshal(&gcounterWire{Elements: c.Elements()})
}

// FromBytesGCounter 反序列化 GCounter。
func FromBytesGCounter(data []byte) (*GCounter, error) {
	var w gcounterWire
	if err := decode(TypeGCounter, data, &w); err != nil {
		return nil, err
	}
	c, err := gcounterFromElements(w.Elements)
	if err != nil {
		return nil, &InvalidDataError{CRDTType: TypeGCounter, Reason: err.Error(), DataLength: len(data)}
	}
	return c, nil
}

func (c *PNCounter) Bytes() ([]byte, error) {
	return msgpack.Marshal(&pncounterWire{
		Inc: c.Additions().Elements(),
		Dec: c.Subtractions().Elements(),
	})
}

// FromBytesPNCounter 反序列化 PNCounter。
func FromBytesPNCounter(data []byte) (*PNCounter, error) {
	var w pncounterWire
	if err := decode(TypePNCounter, data, &w); err != nil {
		return nil, err
	}
	inc, err := gcounterFromElements(w.Inc)
	if err != nil {
		return nil, &InvalidDataError{CRDTType: TypePNCounter, Reason: err.Error(), DataLength: len(data)}
	}
	dec, err := gcounterFromElements(w.Dec)
	if err != nil {
		return nil, &InvalidDataError{CRDTType: TypePNCounter, Reason: err.Error(), DataLength: len(data)}
	}
	return &PNCounter{inc: inc, dec: dec}, nil
}

func (r *LWWRegister[T]) Bytes() ([]byte, error) {
	return msgpack.Marshal(&lwwWire[T]{
		Value:     r.Value(),
		Timestamp: r.Timestamp(),
		UpdatedBy: r.UpdatedBy(),
	})
}

// FromBytesLWW 反序列化 LWWRegister。
func FromBytesLWW[T comparable](data []byte) (*LWWRegister[T], error) {
	var w lwwWire[T]
	if err := decode(TypeLWW, data, &w); err != nil {
		return nil, err
	}
	return NewLWWRegister(w.Value, w.Timestamp, w.UpdatedBy), nil
}

func (s *GSet[T]) Bytes() ([]byte, error) {
	return msgpack.Marshal(&gsetWire[T]{Elements: s.Elements()})
}

// FromBytesGSet 反序列化 GSet。
func FromBytesGSet[T comparable](data []byte) (*GSet[T], error) {
	var w gsetWire[T]
	if err := decode(TypeGSet, data, &w); err != nil {
		return nil, err
	}
	return NewGSet(w.Elements...), nil
}

func (s *TwoPhaseSet[T]) Bytes() ([]byte, error) {
	return msgpack.Marshal(&twoPhaseWire[T]{Adds: s.Adds(), Removes: s.Removes()})
}

// FromBytesTwoPhaseSet 反序列化 TwoPhaseSet。墓碑按原样恢复，不做过滤。
func FromBytesTwoPhaseSet[T comparable](data []byte) (*TwoPhaseSet[T], error) {
	var w twoPhaseWire[T]
	if err := decode(TypeTwoPhaseSet, data, &w); err != nil {
		return nil, err
	}
	s := NewTwoPhaseSet[T]()
	for _, v := range w.Adds {
		s.adds.Add(v)
	}
	for _, v := range w.Removes {
		s.removes.Add(v)
	}
	return s, nil
}

func (s *ORSet[T]) Bytes() ([]byte, error) {
	return msgpack.Marshal(&orsetWire[T]{Adds: s.Adds(), Removes: s.Removes()})
}

// FromBytesORSet 反序列化 ORSet。
func FromBytesORSet[T comparable](data []byte) (*ORSet[T], error) {
	var w orsetWire[T]
	if err := decode(TypeORSet, data, &w); err != nil {
		return nil, err
	}
	s := NewORSet[T]()
	for _, e := range w.Adds {
		s.adds.Add(e)
	}
	for _, e := range w.Removes {
		s.removes.Add(e)
	}
	return s, nil
}
