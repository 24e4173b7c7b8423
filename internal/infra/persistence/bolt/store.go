// Package bolt provides a data adapter backed by a bbolt key/value file.
//
// Each namespace owns a top-level bucket holding a codec key, an encoded meta
// key and a nested records bucket keyed by the 8-byte big-endian slot index.
package bolt

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gameframework/internal/codec"
	"gameframework/internal/infra/persistence/memory"
	"gameframework/pkg/domain"

	"go.etcd.io/bbolt"
)

var _ domain.DataAdapter = (*Adapter)(nil)

var (
	keyCodec      = []byte("codec")
	keyMeta       = []byte("meta")
	bucketRecords = []byte("records")
)

// ErrCorrupt is returned when stored keys disagree with the meta entry.
var ErrCorrupt = errors.New("stored snapshot is corrupt")

type meta struct {
	ID         string    `json:"id" msgpack:"id" cbor:"id"`
	CapturedAt time.Time `json:"captured_at" msgpack:"captured_at" cbor:"captured_at"`
	Count      int       `json:"count" msgpack:"count" cbor:"count"`
}

// Adapter persists snapshots of one namespace into a bbolt database.
type Adapter struct {
	*memory.Adapter
	db    *bbolt.DB
	codec codec.Codec
	owned bool
	mu    sync.Mutex
}

// OpenDB opens (creating when needed) the bbolt file at path.
func OpenDB(path string) (*bbolt.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("bolt path is required")
	}
	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	return db, nil
}

// Open opens path and returns an adapter that closes the file on Close.
func Open(path, namespace string, c codec.Codec) (*Adapter, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	a := NewAdapter(db, namespace, c)
	a.owned = true
	return a, nil
}

// NewAdapter binds an adapter to an already open database, which stays owned
// by the caller. Several namespaces may share one database this way.
func NewAdapter(db *bbolt.DB, namespace string, c codec.Codec) *Adapter {
	if c == nil {
		c = codec.JSON{}
	}
	return &Adapter{Adapter: memory.NewAdapter(namespace), db: db, codec: c}
}

// Name identifies the adapter kind.
func (a *Adapter) Name() string { return "bolt" }

// DB exposes the underlying database.
func (a *Adapter) DB() *bbolt.DB { return a.db }

// ProduceSnapshot captures target and replaces the stored snapshot.
func (a *Adapter) ProduceSnapshot(ctx context.Context, target domain.Target) (domain.SerializableData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := a.Capture(target)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.persist(snap); err != nil {
		return nil, fmt.Errorf("bolt persist %s: %w", a.Namespace(), err)
	}
	a.ImportSnapshot(snap)
	return snap, nil
}

func (a *Adapter) persist(snap *domain.Snapshot) error {
	metaPayload, err := a.codec.Marshal(meta{ID: snap.ID, CapturedAt: snap.CapturedAt, Count: len(snap.Records)})
	if err != nil {
		return fmt.Errorf("encode meta: %w", err)
	}
	payloads := make([][]byte, len(snap.Records))
	for i, rec := range snap.Records {
		if payloads[i], err = a.codec.Marshal(rec); err != nil {
			return fmt.Errorf("encode record %d: %w", i, err)
		}
	}
	return a.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(namespaceBucket(a.Namespace()))
		if err != nil {
			return fmt.Errorf("create namespace bucket: %w", err)
		}
		if bucket.Bucket(bucketRecords) != nil {
			if err := bucket.DeleteBucket(bucketRecords); err != nil {
				return fmt.Errorf("drop records bucket: %w", err)
			}
		}
		records, err := bucket.CreateBucket(bucketRecords)
		if err != nil {
			return fmt.Errorf("create records bucket: %w", err)
		}
		for i, payload := range payloads {
			if err := records.Put(slotKey(i), payload); err != nil {
				return fmt.Errorf("put record %d: %w", i, err)
			}
		}
		if err := bucket.Put(keyCodec, []byte(a.codec.Name())); err != nil {
			return fmt.Errorf("put codec: %w", err)
		}
		return bucket.Put(keyMeta, metaPayload)
	})
}

// LoadSnapshot reads the stored snapshot; (nil, nil) when none exists.
func (a *Adapter) LoadSnapshot(ctx context.Context) (domain.SerializableData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var snap *domain.Snapshot
	err := a.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(namespaceBucket(a.Namespace()))
		if bucket == nil {
			return nil
		}
		metaPayload := bucket.Get(keyMeta)
		if metaPayload == nil {
			return nil
		}
		dec, err := codec.ByName(string(bucket.Get(keyCodec)))
		if err != nil {
			return fmt.Errorf("stored snapshot: %w", err)
		}
		var m meta
		if err := dec.Unmarshal(metaPayload, &m); err != nil {
			return fmt.Errorf("decode meta: %w", err)
		}
		out := &domain.Snapshot{ID: m.ID, Namespace: a.Namespace(), CapturedAt: m.CapturedAt, Records: make([]domain.RecordData, 0, m.Count)}
		if records := bucket.Bucket(bucketRecords); records != nil {
			err := records.ForEach(func(k, v []byte) error {
				if len(k) != 8 || binary.BigEndian.Uint64(k) != uint64(len(out.Records)) {
					return fmt.Errorf("%w: unexpected record key %x", ErrCorrupt, k)
				}
				var rec domain.RecordData
				if err := dec.Unmarshal(v, &rec); err != nil {
					return fmt.Errorf("decode record %d: %w", len(out.Records), err)
				}
				out.Records = append(out.Records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		if len(out.Records) != m.Count {
			return fmt.Errorf("%w: %d records stored, meta says %d", ErrCorrupt, len(out.Records), m.Count)
		}
		snap = out
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt load %s: %w", a.Namespace(), err)
	}
	if snap == nil {
		return nil, nil
	}
	a.ImportSnapshot(snap)
	return snap, nil
}

// Close closes the database when the adapter opened it.
func (a *Adapter) Close() error {
	if a == nil || a.db == nil || !a.owned {
		return nil
	}
	return a.db.Close()
}

func namespaceBucket(namespace string) []byte {
	return []byte("snapshot:" + namespace)
}

func slotKey(i int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(i))
	return key
}
