package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const defaultBadgerValueLogFileSize = 128 * 1024 * 1024 // 128MB

// BadgerStore 是基于 Badger 的 KV 实现。
type BadgerStore struct {
	db *badger.DB
}

type badgerConfig struct {
	valueLogFileSize int64
	inMemory         bool
	logger           log.Logger
}

// BadgerOption customizes how Badger is opened.
type BadgerOption func(*badgerConfig) error

// WithBadgerValueLogFileSize sets max bytes per value log (vlog) file.
func WithBadgerValueLogFileSize(sizeBytes int64) BadgerOption {
	return func(cfg *badgerConfig) error {
		if sizeBytes <= 0 {
			return fmt.Errorf("badger value log file size must be > 0, got %d", sizeBytes)
		}
		cfg.valueLogFileSize = sizeBytes
		return nil
	}
}

// WithBadgerInMemory keeps all data in memory; path must be empty.
func WithBadgerInMemory() BadgerOption {
	return func(cfg *badgerConfig) error {
		cfg.inMemory = true
		return nil
	}
}

// WithBadgerLogger routes Badger's internal logs to logger.
func WithBadgerLogger(logger log.Logger) BadgerOption {
	return func(cfg *badgerConfig) error {
		cfg.logger = logger
		return nil
	}
}

// NewBadgerStore creates a Badger-backed store.
func NewBadgerStore(path string, options ...BadgerOption) (*BadgerStore, error) {
	cfg := badgerConfig{
		valueLogFileSize: defaultBadgerValueLogFileSize,
	}
	for _, option := range options {
		if option == nil {
			continue
		}
		if err := option(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.inMemory && path != "" {
		return nil, fmt.Errorf("in-memory badger store must not have a path, got %q", path)
	}

	opts := badger.DefaultOptions(path).
		WithInMemory(cfg.inMemory).
		WithValueLogFileSize(cfg.valueLogFileSize)
	opts.Logger = nil
	if cfg.logger != nil {
		opts.Logger = badgerLogger{logger: cfg.logger}
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) View(fn func(Tx) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		return fn(badgerTx{txn: txn})
	})
}

func (s *BadgerStore) Update(fn func(Tx) error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return fn(badgerTx{txn: txn})
	})
}

type badgerTx struct {
	txn *badger.Txn
}

func (tx badgerTx) Get(key []byte) ([]byte, error) {
	item, err := tx.txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (tx badgerTx) Set(key, value []byte) error {
	return tx.txn.Set(key, value)
}

func (tx badgerTx) Delete(key []byte) error {
	return tx.txn.Delete(key)
}

func (tx badgerTx) Scan(prefix []byte, fn func(key, value []byte) bool) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := tx.txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if !fn(item.KeyCopy(nil), val) {
			return nil
		}
	}
	return nil
}

// badgerLogger adapts go-kit log to badger.Logger.
type badgerLogger struct {
	logger log.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	level.Error(l.logger).Log("component", "badger", "msg", fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...any) {
	level.Warn(l.logger).Log("component", "badger", "msg", fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...any) {
	level.Info(l.logger).Log("component", "badger", "msg", fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...any) {
	level.Debug(l.logger).Log("component", "badger", "msg", fmt.Sprintf(format, args...))
}
