package blobstore

import (
	"context"

	"github.com/dgraph-io/badger"
	"github.com/golang/glog"
	"golang.org/x/xerrors"
)

// Key prefix for blobs, leaving room for other tables in the same database.
const blobKeyPrefix = "blob/"

func blobKey(name string) []byte {
	return []byte(blobKeyPrefix + name)
}

// BadgerStore keeps blobs in a badger key-value database.
type BadgerStore struct {
	db *badger.DB
}

func NewBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = glogLogger{}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, xerrors.Errorf("while opening badger kv dir: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(ctx context.Context, name string) ([]byte, bool, error) {
	if err := checkName(name); err != nil {
		return nil, false, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blobKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if xerrors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, xerrors.Errorf("while reading blob %q: %w", name, err)
	}
	return data, true, nil
}

func (s *BadgerStore) Put(ctx context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blobKey(name), data)
	})
	if err != nil {
		return xerrors.Errorf("while writing blob %q: %w", name, err)
	}
	return nil
}

func (s *BadgerStore) Close() error {
	if err := s.db.Close(); err != nil {
		return xerrors.Errorf("while closing badger db: %w", err)
	}
	return nil
}

// glogLogger sends badger's logs to glog.  Debug output only shows at -v=2.
type glogLogger struct{}

func (glogLogger) Errorf(format string, args ...interface{}) {
	glog.Errorf(format, args...)
}

func (glogLogger) Warningf(format string, args ...interface{}) {
	glog.Warningf(format, args...)
}

func (glogLogger) Infof(format string, args ...interface{}) {
	glog.V(1).Infof(format, args...)
}

func (glogLogger) Debugf(format string, args ...interface{}) {
	glog.V(2).Infof(format, args...)
}
