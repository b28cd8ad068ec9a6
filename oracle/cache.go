package oracle

import (
	"encoding/binary"
	"fmt"

	"github.com/boltdb/bolt"
	"github.com/hexhex/core/registry"
	"github.com/mitchellh/hashstructure"
	"gopkg.in/yaml.v2"
)

var cacheBucket = []byte("retrieve-cache")

// cachedAnswer is the on-disk shape of one retrieve result: registry.ID
// and registry.Address are plain uint64/uint32 typedefs, so a tuple of
// them marshals through yaml.v2 (already part of the ambient stack for
// config) without needing a bespoke binary codec.
type cachedAnswer struct {
	Tuples [][]uint64 `yaml:"tuples"`
}

// CachedOracle wraps a PluginAtom with a boltdb-backed cache keyed on the
// hashstructure hash of (interpretation restricted to predicate inputs,
// input tuple, output pattern), per spec.md §6 "the oracle is required to
// be deterministic on equal queries. A cache keys on
// (interpretation-over-predicate-inputs, input_tuple, output_pattern)".
type CachedOracle struct {
	inner PluginAtom
	db    *bolt.DB
}

// OpenCache opens (creating if needed) a boltdb file at path as the
// backing store for a cache over inner.
func OpenCache(path string, inner PluginAtom) (*CachedOracle, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("oracle: opening cache at %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cacheBucket)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &CachedOracle{inner: inner, db: db}, nil
}

func (c *CachedOracle) Close() error { return c.db.Close() }

func (c *CachedOracle) Signature() Signature { return c.inner.Signature() }
func (c *CachedOracle) IsMonotonic() bool    { return c.inner.IsMonotonic() }

func cacheKey(q Query) ([]byte, error) {
	h, err := hashstructure.Hash(struct {
		Predicates []registry.Address
		Input      []registry.ID
		Output     []registry.ID
	}{
		Predicates: q.Interp.Addresses(),
		Input:      q.InputTuple,
		Output:     q.OutputPattern,
	}, nil)
	if err != nil {
		return nil, err
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, h)
	return key, nil
}

// Retrieve answers q from the cache if a prior identical query was
// already served, recording inner's answer on a miss.
func (c *CachedOracle) Retrieve(q Query) ([]Tuple, error) {
	key, err := cacheKey(q)
	if err != nil {
		return nil, err
	}

	var cached *cachedAnswer
	err = c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(cacheBucket).Get(key)
		if raw == nil {
			return nil
		}
		var a cachedAnswer
		if err := yaml.Unmarshal(raw, &a); err != nil {
			return err
		}
		cached = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return decodeTuples(cached.Tuples), nil
	}

	answer, err := c.inner.Retrieve(q)
	if err != nil {
		return nil, err
	}

	enc := cachedAnswer{Tuples: encodeTuples(answer)}
	raw, err := yaml.Marshal(enc)
	if err != nil {
		return nil, err
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cacheBucket).Put(key, raw)
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

func encodeTuples(tuples []Tuple) [][]uint64 {
	out := make([][]uint64, len(tuples))
	for i, t := range tuples {
		row := make([]uint64, len(t))
		for j, id := range t {
			row[j] = uint64(id)
		}
		out[i] = row
	}
	return out
}

func decodeTuples(rows [][]uint64) []Tuple {
	out := make([]Tuple, len(rows))
	for i, row := range rows {
		t := make(Tuple, len(row))
		for j, v := range row {
			t[j] = registry.ID(v)
		}
		out[i] = t
	}
	return out
}
