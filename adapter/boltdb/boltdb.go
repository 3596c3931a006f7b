// Package boltdb is a crud.Repository backed by a local bolt database file.
//
// Entities are gob encoded, one bucket per repository, and their IDs come from the bucket sequence.
package boltdb

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"go.llib.dev/restassured/port/crud"
	"go.llib.dev/restassured/port/crud/extid"
)

type DB struct {
	db *bolt.DB
}

// Open opens or creates the bolt database at path.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database %s: %w", path, err)
	}
	return &DB{db: db}, nil
}

// Close the local database and release the file lock.
func (db *DB) Close() error {
	return db.db.Close()
}

func NewRepository[ENT any](db *DB, bucket string, ida extid.Accessor[ENT, int64]) *Repository[ENT] {
	return &Repository[ENT]{DB: db, Bucket: bucket, IDA: ida}
}

type Repository[ENT any] struct {
	DB *DB
	// Bucket [optional] is the bucket name.
	//
	// Default: the entity type name
	Bucket string
	// IDA [optional] is the ID Accessor.
	IDA extid.Accessor[ENT, int64]
}

func (r *Repository[ENT]) Create(ctx context.Context, ptr *ENT) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.DB.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(r.bucketName())
		if err != nil {
			return err
		}
		id, ok := r.IDA.Lookup(*ptr)
		if ok {
			if bucket.Get(idToBytes(id)) != nil {
				return crud.ErrAlreadyExists.F("%T already exists with id: %d", *ptr, id)
			}
		} else {
			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			id = int64(seq)
			if err := r.IDA.Set(ptr, id); err != nil {
				return err
			}
		}
		value, err := encode(ptr)
		if err != nil {
			return err
		}
		return bucket.Put(idToBytes(id), value)
	})
}

func (r *Repository[ENT]) FindByID(ctx context.Context, id int64) (ENT, bool, error) {
	var (
		ent   ENT
		found bool
	)
	if err := ctx.Err(); err != nil {
		return ent, false, err
	}
	err := r.DB.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(r.bucketName())
		if bucket == nil {
			return nil
		}
		data := bucket.Get(idToBytes(id))
		if data == nil {
			return nil
		}
		found = true
		return decode(data, &ent)
	})
	return ent, found, err
}

func (r *Repository[ENT]) FindAll(ctx context.Context) ([]ENT, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []ENT
	err := r.DB.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(r.bucketName())
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(_, data []byte) error {
			var ent ENT
			if err := decode(data, &ent); err != nil {
				return err
			}
			out = append(out, ent)
			return nil
		})
	})
	return out, err
}

func (r *Repository[ENT]) Update(ctx context.Context, ptr *ENT) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id, ok := r.IDA.Lookup(*ptr)
	if !ok {
		return fmt.Errorf("can't find the ID in %T", *ptr)
	}
	value, err := encode(ptr)
	if err != nil {
		return err
	}
	return r.DB.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(r.bucketName())
		if bucket == nil || bucket.Get(idToBytes(id)) == nil {
			return crud.ErrNotFound.F("%T with id %d", *ptr, id)
		}
		return bucket.Put(idToBytes(id), value)
	})
}

func (r *Repository[ENT]) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.DB.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(r.bucketName())
		if bucket == nil || bucket.Get(idToBytes(id)) == nil {
			return crud.ErrNotFound.F("%T with id %d", *new(ENT), id)
		}
		return bucket.Delete(idToBytes(id))
	})
}

func (r *Repository[ENT]) bucketName() []byte {
	if r.Bucket != "" {
		return []byte(r.Bucket)
	}
	return []byte(fmt.Sprintf("%T", *new(ENT)))
}

// idToBytes returns an 8-byte big endian representation of the id,
// which keeps the bucket ordered by ID.
func idToBytes(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, ptr any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(ptr)
}
