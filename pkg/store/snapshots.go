package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shinyes/convergent/pkg/crdt"
)

// Snapshots 以 Record 形式保存 CRDT 快照，并支持写入时合并。
// 它本身不持有锁，并发安全由底层 KV 的事务保证。
type Snapshots struct {
	kv      KV
	prefix  string
	logger  log.Logger
	metrics *metrics
}

type options struct {
	logger     log.Logger
	registerer prometheus.Registerer
}

// Option 配置 Snapshots。
type Option func(*options)

// WithLogger 设置结构化日志，默认丢弃。
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRegisterer 在 reg 上注册存储指标。
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// Open 按 cfg 打开 Badger 并返回快照存储。
func Open(cfg Config, opts ...Option) (*Snapshots, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := applyOptions(opts)

	badgerOpts := append(cfg.badgerOptions(), WithBadgerLogger(log.With(o.logger, "component", "badger")))
	kv, err := NewBadgerStore(cfg.Path, badgerOpts...)
	if err != nil {
		return nil, fmt.Errorf("打开快照存储失败: %w", err)
	}
	level.Info(o.logger).Log("msg", "snapshot store opened", "path", cfg.Path, "in_memory", cfg.InMemory)
	return newSnapshots(kv, cfg.KeyPrefix, o), nil
}

// New 在已有的 KV 上创建快照存储。
func New(kv KV, prefix string, opts ...Option) *Snapshots {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return newSnapshots(kv, prefix, applyOptions(opts))
}

func applyOptions(opts []Option) options {
	o := options{logger: log.NewNopLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newSnapshots(kv KV, prefix string, o options) *Snapshots {
	return &Snapshots{
		kv:      kv,
		prefix:  prefix,
		logger:  o.logger,
		metrics: newMetrics(o.registerer),
	}
}

func (s *Snapshots) Close() error {
	return s.kv.Close()
}

func (s *Snapshots) key(id string) []byte {
	return []byte(s.prefix + id)
}

// Put 覆盖写入 id 对应的快照。
func (s *Snapshots) Put(id string, snapshot Snapshot, updatedBy crdt.Identity, ts crdt.Timestamp) error {
	rec, err := NewRecord(id, snapshot, updatedBy, ts)
	if err == nil {
		err = s.kv.Update(func(tx Tx) error {
			return putRecord(tx, s.key(id), rec)
		})
	}
	s.metrics.observe("put", snapshot.Type().String(), err)
	if err != nil {
		level.Error(s.logger).Log("msg", "put snapshot failed", "id", id, "err", err)
		return err
	}
	level.Debug(s.logger).Log("msg", "put snapshot", "id", id, "type", rec.Type, "by", updatedBy, "ts", ts)
	return nil
}

// Get 读取 id 对应的记录，不存在时返回 ErrKeyNotFound。
func (s *Snapshots) Get(id string) (Record, error) {
	var rec Record
	err := s.kv.View(func(tx Tx) error {
		var err error
		rec, err = getRecord(tx, s.key(id))
		return err
	})
	switch {
	case err == nil:
		s.metrics.observe("get", rec.Type.String(), nil)
	case errors.Is(err, ErrKeyNotFound):
		s.metrics.observe("get", "", nil)
	default:
		s.metrics.observe("get", "", err)
		level.Error(s.logger).Log("msg", "get snapshot failed", "id", id, "err", err)
	}
	return rec, err
}

// Delete 删除 id 对应的记录；记录不存在时不报错。
func (s *Snapshots) Delete(id string) error {
	err := s.kv.Update(func(tx Tx) error {
		return tx.Delete(s.key(id))
	})
	s.metrics.observe("delete", "", err)
	return err
}

// List 按 id 升序返回所有 id 以 prefix 开头的记录。
func (s *Snapshots) List(prefix string) ([]Record, error) {
	var out []Record
	err := s.kv.View(func(tx Tx) error {
		var decodeErr error
		scanErr := tx.Scan(s.key(prefix), func(key, value []byte) bool {
			rec, err := decodeRecord(value)
			if err != nil {
				decodeErr = fmt.Errorf("记录 %q: %w", strings.TrimPrefix(string(key), s.prefix), err)
				return false
			}
			out = append(out, rec)
			return true
		})
		if scanErr != nil {
			return scanErr
		}
		return decodeErr
	})
	s.metrics.observe("list", "", err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Merge 在一个事务中读取 id 的当前状态，与 incoming 合并后写回，并返回合并结果。
// 记录不存在时直接保存 incoming。已存记录的类型不同则返回 ErrTypeMismatch。
func Merge[S crdt.CRDT[S]](s *Snapshots, id string, incoming S, decode func([]byte) (S, error), updatedBy crdt.Identity, ts crdt.Timestamp) (S, error) {
	merged := incoming
	err := s.kv.Update(func(tx Tx) error {
		key := s.key(id)
		current, err := getRecord(tx, key)
		switch {
		case errors.Is(err, ErrKeyNotFound):
		case err != nil:
			return err
		default:
			local, err := Decode(current, incoming.Type(), decode)
			if err != nil {
				return err
			}
			merged = local.Merge(incoming)
		}

		rec, err := NewRecord(id, merged, updatedBy, ts)
		if err != nil {
			return err
		}
		return putRecord(tx, key, rec)
	})
	s.metrics.observe("merge", incoming.Type().String(), err)
	if err != nil {
		level.Error(s.logger).Log("msg", "merge snapshot failed", "id", id, "err", err)
		var zero S
		return zero, err
	}
	level.Debug(s.logger).Log("msg", "merged snapshot", "id", id, "type", incoming.Type(), "by", updatedBy, "ts", ts)
	return merged, nil
}

// Load 读取并解码 id 对应的快照。
func Load[S Snapshot](s *Snapshots, id string, want crdt.Type, decode func([]byte) (S, error)) (S, error) {
	rec, err := s.Get(id)
	if err != nil {
		var zero S
		return zero, err
	}
	return Decode(rec, want, decode)
}

func getRecord(tx Tx, key []byte) (Record, error) {
	data, err := tx.Get(key)
	if err != nil {
		return Record{}, err
	}
	return decodeRecord(data)
}

func putRecord(tx Tx, key []byte, rec Record) error {
	data, err := rec.encode()
	if err != nil {
		return fmt.Errorf("编码记录 %q 失败: %w", rec.ID, err)
	}
	return tx.Set(key, data)
}
