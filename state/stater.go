// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"encoding/binary"
	"sync"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/vechain/jobstake/cache"
	"github.com/vechain/jobstake/kv"
	"github.com/vechain/jobstake/log"
)

var logger = log.WithContext("pkg", "state")

// ErrConflict is returned by Stage.Commit when the head moved since the state was created.
var ErrConflict = errors.New("state: revision conflict")

const (
	storageBucket kv.Bucket = "s"
	metaBucket    kv.Bucket = "m"
)

var headKey = []byte("head")

// Stater is the state creator. It owns the head revision of committed storage.
type Stater struct {
	db      kv.Store
	storage kv.Store
	meta    kv.Store
	cache   *cache.LRU

	// commit holds the write lock while a stage is written and cached,
	// loads hold the read lock so no stale value can enter the cache.
	lock sync.RWMutex
	head uint64
}

// NewStater create a new stater over the given db.
func NewStater(db kv.Store, cacheSize int) (*Stater, error) {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	lru, err := cache.NewLRU(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "new storage cache")
	}
	s := &Stater{
		db:      db,
		storage: storageBucket.NewStore(db),
		meta:    metaBucket.NewStore(db),
		cache:   lru,
	}

	data, err := s.meta.Get(headKey)
	if err != nil {
		if !s.meta.IsNotFound(err) {
			return nil, errors.Wrap(err, "load head revision")
		}
	} else {
		s.head = binary.BigEndian.Uint64(data)
	}
	logger.Debug("stater opened", "head", s.head)
	return s, nil
}

// Head returns the latest committed revision.
func (s *Stater) Head() uint64 {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.head
}

// NewState create a new state object reading at the head revision.
func (s *Stater) NewState() *State {
	return newState(s, s.Head())
}

func (s *Stater) loadStorage(key storageKey) (rlp.RawValue, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	v, err := s.cache.GetOrLoad(key, func(any) (any, error) {
		metricStorageLoads().Add(1)
		data, err := s.storage.Get(key.bytes())
		if err != nil {
			if s.storage.IsNotFound(err) {
				return rlp.RawValue(nil), nil
			}
			return nil, err
		}
		return rlp.RawValue(data), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(rlp.RawValue), nil
}

func (s *Stater) commit(base uint64, order []storageKey, changes map[storageKey]rlp.RawValue) (uint64, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.head != base {
		metricCommits().AddWithLabel(1, map[string]string{"result": "conflict"})
		return 0, ErrConflict
	}

	next := s.head + 1
	batch := s.db.NewBatch()
	storage := storageBucket.NewPutter(batch)
	for _, key := range order {
		if v := changes[key]; len(v) == 0 {
			if err := storage.Delete(key.bytes()); err != nil {
				return 0, &Error{err}
			}
		} else {
			if err := storage.Put(key.bytes(), v); err != nil {
				return 0, &Error{err}
			}
		}
	}
	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], next)
	if err := metaBucket.NewPutter(batch).Put(headKey, enc[:]); err != nil {
		return 0, &Error{err}
	}
	if err := batch.Write(); err != nil {
		return 0, &Error{err}
	}

	for _, key := range order {
		s.cache.Add(key, changes[key])
	}
	s.head = next
	metricCommits().AddWithLabel(1, map[string]string{"result": "ok"})
	if changed, hit, miss := s.cache.Stats(); changed {
		metricCacheHitMiss().SetWithLabel(hit, map[string]string{"type": "hit"})
		metricCacheHitMiss().SetWithLabel(miss, map[string]string{"type": "miss"})
	}
	return next, nil
}
