package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Fixed keys: linkpad stores exactly one document.
var (
	bucketName = []byte("linkpad")
	contentKey = []byte("document")
	sessionKey = []byte("session")
)

// Bolt is the production Store, backed by a bbolt database file.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the cache database at path.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing cache bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

// Load returns the cached document text.
func (b *Bolt) Load() (string, bool, error) {
	var text string
	var ok bool

	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(contentKey); v != nil {
			text = string(v)
			ok = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("loading cached document: %w", err)
	}

	return text, ok, nil
}

// Save overwrites the cached document text.
func (b *Bolt) Save(text string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(contentKey, []byte(text))
	})
	if err != nil {
		return fmt.Errorf("saving cached document: %w", err)
	}
	return nil
}

// Clear records an explicitly empty document. The key stays present so a
// cleared document is distinguishable from one that was never saved.
func (b *Bolt) Clear() error {
	return b.Save("")
}

// LoadSession returns the last committed session metadata.
func (b *Bolt) LoadSession() (SessionInfo, bool, error) {
	var data []byte

	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(sessionKey); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return SessionInfo{}, false, fmt.Errorf("loading session metadata: %w", err)
	}
	if data == nil {
		return SessionInfo{}, false, nil
	}

	return decodeSession(data), true, nil
}

// SaveSession overwrites the session metadata.
func (b *Bolt) SaveSession(info SessionInfo) error {
	data, err := encodeSession(info)
	if err != nil {
		return err
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(sessionKey, data)
	})
	if err != nil {
		return fmt.Errorf("saving session metadata: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

var _ Store = (*Bolt)(nil)
