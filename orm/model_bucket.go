package orm

import (
	"reflect"
	"regexp"

	"github.com/iov-one/custodian"
	"github.com/iov-one/custodian/errors"
)

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	custodian.Persistent
	Validate() error
}

// ModelBucket is implemented by buckets that operates on models rather than
// raw bytes.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If the destination model type does not match the stored entity type
	// an error is returned.
	One(db custodian.ReadOnlyKVStore, key []byte, dest Model) error

	// Put saves given model in the database. Before inserting into
	// database, model is validated using its Validate method.
	Put(db custodian.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db custodian.KVStore, key []byte) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db custodian.ReadOnlyKVStore, key []byte) error
}

// isBucketName returns true if given string can be used as a bucket name.
var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// NewModelBucket returns a ModelBucket instance. This implementation relies
// on a bucket instance. Final implementation should operate directly on the
// KVStore instead.
func NewModelBucket(name string, m Model) ModelBucket {
	if !isBucketName(name) {
		panic(errors.ErrHuman.Newf("invalid bucket name: %s", name))
	}
	return &modelBucket{
		prefix: []byte(name + ":"),
		model:  reflect.TypeOf(m).Elem(),
	}
}

type modelBucket struct {
	prefix []byte
	model  reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (b *modelBucket) dbKey(key []byte) []byte {
	return append(b.prefix, key...)
}

func (b *modelBucket) One(db custodian.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := b.assertModelType(dest); err != nil {
		return err
	}
	raw := db.Get(b.dbKey(key))
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal into %T", dest)
	}
	return nil
}

func (b *modelBucket) Put(db custodian.KVStore, key []byte, m Model) error {
	if err := b.assertModelType(m); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %T", m)
	}
	db.Set(b.dbKey(key), raw)
	return nil
}

func (b *modelBucket) Delete(db custodian.KVStore, key []byte) error {
	if err := b.Has(db, key); err != nil {
		return err
	}
	db.Delete(b.dbKey(key))
	return nil
}

func (b *modelBucket) Has(db custodian.ReadOnlyKVStore, key []byte) error {
	if len(key) == 0 {
		// Empty key is never present.
		return errors.ErrNotFound
	}
	if !db.Has(b.dbKey(key)) {
		return errors.ErrNotFound
	}
	return nil
}

// assertModelType ensures the model passed by the user is the same type as
// the one this bucket operates on. Helpful to avoid silent corruption when a
// wrong destination is given.
func (b *modelBucket) assertModelType(m Model) error {
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		return errors.Wrapf(errors.ErrType, "%T is not a pointer", m)
	}
	if tp.Elem() != b.model {
		return errors.Wrapf(errors.ErrType, "cannot use %T with %s bucket", m, b.model.Name())
	}
	return nil
}
