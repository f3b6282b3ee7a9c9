package crdt

import (
	"fmt"
	"sync"
	"testing"
)

// TestLWWRegister_ConcurrentMerge 多个 goroutine 合并同一组共享实例，结果一致且不修改操作数。
func TestLWWRegister_ConcurrentMerge(t *testing.T) {
	target := NewLWWRegister("initial", 0, ident(0))
	sources := make([]*LWWRegister[string], 10)
	for i := range sources {
		sources[i] = NewLWWRegister(fmt.Sprintf("value-%d", i), Timestamp(i+1), ident(byte(i)))
	}

	var wg sync.WaitGroup
	results := make([]*LWWRegister[string], len(sources))
	for i := range sources {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			acc := target
			for j := 0; j < 50; j++ {
				acc = acc.Merge(sources[(idx+j)%len(sources)])
			}
			results[idx] = acc
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r.Value() != "value-9" {
			t.Errorf("goroutine %d: 预期 value-9, 得到 %s", i, r.Value())
		}
	}
	if target.Value() != "initial" {
		t.Errorf("共享实例被修改: %s", target.Value())
	}
}

// TestORSet_Concurrent 测试 ORSet 在并发读与派生新实例时的安全性
func TestORSet_Concurrent(t *testing.T) {
	base := NewORSet[string]()
	for i := 0; i < 20; i++ {
		base = base.Add(fmt.Sprintf("elem-%d", i), NewTag(ident(0), Timestamp(i)))
	}

	concurrency := 50
	var wg sync.WaitGroup
	derived := make([]*ORSet[string], concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s := base
			for j := 0; j < 20; j++ {
				elem := fmt.Sprintf("elem-%d", j)
				if (id+j)%3 == 0 {
					s = s.Remove(elem)
				} else {
					s = s.Add(elem, NewTag(ident(byte(id+1)), Timestamp(j)))
				}
				_ = base.Contains(elem)
				_ = base.Elements()
			}
			derived[id] = s
		}(i)
	}
	wg.Wait()

	if base.Len() != 20 {
		t.Fatalf("共享实例被修改: %d", base.Len())
	}

	merged := NewORSet[string]()
	for _, s := range derived {
		merged = merged.Merge(s)
	}
	reverse := NewORSet[string]()
	for i := len(derived) - 1; i >= 0; i-- {
		reverse = reverse.Merge(derived[i])
	}
	if !merged.Equal(reverse) {
		t.Fatal("不同合并顺序得到不同状态")
	}
}

// TestPNCounter_Concurrent 每个 goroutine 代表一个副本，最终合并值等于所有增减之和。
func TestPNCounter_Concurrent(t *testing.T) {
	replicas := 20
	ops := 100

	var wg sync.WaitGroup
	counters := make([]*PNCounter, replicas)
	for i := 0; i < replicas; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			owner := ident(byte(id))
			c := NewPNCounter()
			for j := 0; j < ops; j++ {
				var err error
				if j%4 == 0 {
					c, err = c.Decrement(owner, 1)
				} else {
					c, err = c.Increment(owner, 1)
				}
				if err != nil {
					t.Error(err)
					return
				}
			}
			counters[id] = c
		}(i)
	}
	wg.Wait()

	total := NewPNCounter()
	for _, c := range counters {
		total = total.Merge(c)
	}
	want := int64(replicas * (ops*3/4 - ops/4))
	if total.Value() != want {
		t.Errorf("预期 %d, 实际得到 %d", want, total.Value())
	}
}
