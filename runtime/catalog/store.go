package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/fxamacker/cbor/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Key prefixes. Keys are prefix + name or sid.
const (
	datamodelPrefix = "dm/"
	jobPrefix       = "job/"
)

const defaultCacheSize = 1024

// Store is a pebble-backed Catalog with CBOR-encoded records and an LRU of
// decoded records in front of the database.
type Store struct {
	db         *pebble.DB
	enc        cbor.EncMode
	datamodels *lru.Cache[string, DatamodelRecord]
	jobs       *lru.Cache[string, JobRecord]
	now        func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	cacheSize int
	now       func() time.Time
}

// WithCacheSize sets the number of decoded records kept per kind.
func WithCacheSize(n int) StoreOption {
	return func(c *storeConfig) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// WithClock sets the clock used for record timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(c *storeConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Open opens or creates the store in dir.
func Open(dir string, opts ...StoreOption) (*Store, error) {
	cfg := storeConfig{cacheSize: defaultCacheSize, now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	datamodels, err := lru.New[string, DatamodelRecord](cfg.cacheSize)
	if err != nil {
		return nil, err
	}
	jobs, err := lru.New[string, JobRecord](cfg.cacheSize)
	if err != nil {
		return nil, err
	}

	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", dir, err)
	}
	return &Store{db: db, enc: enc, datamodels: datamodels, jobs: jobs, now: cfg.now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutDatamodel stores or replaces a datamodel.
func (s *Store) PutDatamodel(name, query string) error {
	rec := DatamodelRecord{Name: name, Query: query, Updated: s.now().Unix()}
	key := datamodelPrefix + name
	if err := s.put(key, rec); err != nil {
		return err
	}
	s.datamodels.Add(key, rec)
	return nil
}

// PutJob stores or replaces a job. An empty sourceIP makes the job visible
// from any address.
func (s *Store) PutJob(sid, otl, sourceIP string) error {
	rec := JobRecord{SID: sid, OTL: otl, SourceIP: sourceIP, Created: s.now().Unix()}
	key := jobPrefix + sid
	if err := s.put(key, rec); err != nil {
		return err
	}
	s.jobs.Add(key, rec)
	return nil
}

func (s *Store) put(key string, rec any) error {
	data, err := s.enc.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.db.Set([]byte(key), data, pebble.Sync)
}

// get decodes the record at key into out. It reports false when absent.
func (s *Store) get(key string, out any) (bool, error) {
	value, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer closer.Close()
	if err := cbor.Unmarshal(value, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) Datamodel(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := datamodelPrefix + name
	if rec, ok := s.datamodels.Get(key); ok {
		return rec.Query, nil
	}
	var rec DatamodelRecord
	found, err := s.get(key, &rec)
	if err != nil {
		return "", err
	}
	if !found {
		return "", datamodelNotFound(name)
	}
	s.datamodels.Add(key, rec)
	return rec.Query, nil
}

func (s *Store) JobOTL(ctx context.Context, sid, sourceIP string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := jobPrefix + sid
	rec, ok := s.jobs.Get(key)
	if !ok {
		found, err := s.get(key, &rec)
		if err != nil {
			return "", err
		}
		if !found {
			return "", jobNotFound(sid)
		}
		s.jobs.Add(key, rec)
	}
	if !rec.visibleFrom(sourceIP) {
		return "", jobNotFound(sid)
	}
	return rec.OTL, nil
}

// Datamodels returns every stored datamodel in key order.
func (s *Store) Datamodels(ctx context.Context) ([]DatamodelRecord, error) {
	var out []DatamodelRecord
	err := s.scan(ctx, datamodelPrefix, func(value []byte) error {
		var rec DatamodelRecord
		if err := cbor.Unmarshal(value, &rec); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

// Jobs returns every stored job in key order.
func (s *Store) Jobs(ctx context.Context) ([]JobRecord, error) {
	var out []JobRecord
	err := s.scan(ctx, jobPrefix, func(value []byte) error {
		var rec JobRecord
		if err := cbor.Unmarshal(value, &rec); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	return out, err
}

func (s *Store) DatamodelNames(ctx context.Context) ([]string, error) {
	recs, err := s.Datamodels(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Name
	}
	return names, nil
}

func (s *Store) scan(ctx context.Context, prefix string, fn func(value []byte) error) error {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()
	for valid := iter.First(); valid; valid = iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(iter.Value()); err != nil {
			return fmt.Errorf("decode %s: %w", iter.Key(), err)
		}
	}
	return iter.Error()
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix string) []byte {
	end := []byte(prefix)
	end[len(end)-1]++
	return end
}
