// Package store caches solver results in a badger database.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"zappem.net/pub/math/algsolve/expr"
	"zappem.net/pub/math/algsolve/solve"
)

const (
	resultPrefix = "result/"
	exprPrefix   = "expr/"
)

// Config locates the database.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
	// TTL expires entries; 0 keeps them forever.
	TTL time.Duration
	// Logger receives badger's own messages; nil silences them.
	Logger *slog.Logger
}

// Store satisfies solve.Cache.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

var _ solve.Cache = (*Store)(nil)

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens or creates the database.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	switch {
	case cfg.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case cfg.Path == "":
		return nil, errors.New("store: path is required for a persistent cache")
	default:
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger: %w", err)
	}
	return &Store{db: db, ttl: cfg.TTL}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// hash maps an arbitrary problem key to a fixed size database key.
func hash(prefix, key string) []byte {
	sum := sha256.Sum256([]byte(key))
	return []byte(prefix + hex.EncodeToString(sum[:]))
}

func (s *Store) get(ctx context.Context, k []byte, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		return item.Value(func(data []byte) error {
			return json.Unmarshal(data, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: get %s: %w", k, err)
	}
	return true, nil
}

func (s *Store) put(ctx context.Context, k []byte, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(k, data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Get returns the cached result for a problem key.
func (s *Store) Get(ctx context.Context, key string) (solve.Result, bool, error) {
	var r solve.Result
	ok, err := s.get(ctx, hash(resultPrefix, key), &r)
	return r, ok, err
}

// Put caches a result under a problem key.
func (s *Store) Put(ctx context.Context, key string, r solve.Result) error {
	return s.put(ctx, hash(resultPrefix, key), r)
}

// GetExpr returns a cached expression, e.g. a simplification.
func (s *Store) GetExpr(ctx context.Context, key string) (expr.Expr, bool, error) {
	var e expr.Expr
	ok, err := s.get(ctx, hash(exprPrefix, key), &e)
	return e, ok, err
}

// PutExpr caches an expression.
func (s *Store) PutExpr(ctx context.Context, key string, e expr.Expr) error {
	return s.put(ctx, hash(exprPrefix, key), e)
}

// Len counts the cached results.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(resultPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Purge drops every entry.
func (s *Store) Purge() error {
	return s.db.DropAll()
}
