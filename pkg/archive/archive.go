// Package archive keeps backup copies of save images in a pebble database,
// keyed by time-ordered KSUIDs.
package archive

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("backup not found")

const (
	imagePrefix = "image/"
	metaPrefix  = "meta/"
)

// Meta describes one archived image.
type Meta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Format    string    `json:"format,omitempty"`
	Source    string    `json:"source,omitempty"`
	Size      int       `json:"size"`
	Failures  int       `json:"failures"`
	SHA256    string    `json:"sha256"`
	CreatedAt time.Time `json:"created_at"`
}

// Archive is a pebble-backed image store.
type Archive struct {
	db *pebble.DB
}

// Open opens or creates an archive in dir.
func Open(dir string) (*Archive, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open archive %s", dir)
	}
	return &Archive{db: db}, nil
}

// ParseID parses the string form of a backup id.
func ParseID(s string) (ksuid.KSUID, error) {
	id, err := ksuid.Parse(s)
	if err != nil {
		return ksuid.Nil, errors.Wrapf(ErrNotFound, "invalid id %q", s)
	}
	return id, nil
}

func imageKey(id ksuid.KSUID) []byte {
	return append([]byte(imagePrefix), id.Bytes()...)
}

func metaKey(id ksuid.KSUID) []byte {
	return append([]byte(metaPrefix), id.Bytes()...)
}

// Put stores image with meta and returns the new id. ID, Size, SHA256 and
// CreatedAt are filled in.
func (a *Archive) Put(image []byte, meta Meta) (ksuid.KSUID, error) {
	id := ksuid.New()
	sum := sha256.Sum256(image)
	meta.ID = id.String()
	meta.Size = len(image)
	meta.SHA256 = hex.EncodeToString(sum[:])
	meta.CreatedAt = id.Time().UTC()

	encoded, err := json.Marshal(meta)
	if err != nil {
		return ksuid.Nil, errors.Wrap(err, "encode meta")
	}

	b := a.db.NewBatch()
	defer b.Close()
	if err := b.Set(imageKey(id), image, nil); err != nil {
		return ksuid.Nil, err
	}
	if err := b.Set(metaKey(id), encoded, nil); err != nil {
		return ksuid.Nil, err
	}
	if err := b.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, errors.Wrap(err, "commit backup")
	}

	logrus.WithFields(logrus.Fields{"id": meta.ID, "size": meta.Size, "format": meta.Format}).Info("archived image")
	return id, nil
}

func (a *Archive) get(key []byte) ([]byte, error) {
	data, closer, err := a.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// The value is only valid until closer is closed.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Get returns the archived image bytes.
func (a *Archive) Get(id ksuid.KSUID) ([]byte, error) {
	data, err := a.get(imageKey(id))
	if err != nil {
		return nil, errors.Wrapf(err, "image %s", id)
	}
	return data, nil
}

// Meta returns the metadata of one backup.
func (a *Archive) Meta(id ksuid.KSUID) (Meta, error) {
	data, err := a.get(metaKey(id))
	if err != nil {
		return Meta{}, errors.Wrapf(err, "meta %s", id)
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, errors.Wrapf(err, "decode meta %s", id)
	}
	return m, nil
}

// List returns every backup, oldest first.
func (a *Archive) List() ([]Meta, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(metaPrefix),
		UpperBound: []byte("meta0"), // '0' follows '/'
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var out []Meta
	for iter.First(); iter.Valid(); iter.Next() {
		var m Meta
		if err := json.Unmarshal(iter.Value(), &m); err != nil {
			return nil, errors.Wrapf(err, "decode meta at %x", iter.Key())
		}
		out = append(out, m)
	}
	return out, iter.Error()
}

// Delete removes a backup.
func (a *Archive) Delete(id ksuid.KSUID) error {
	if _, err := a.get(metaKey(id)); err != nil {
		return errors.Wrapf(err, "delete %s", id)
	}

	b := a.db.NewBatch()
	defer b.Close()
	if err := b.Delete(imageKey(id), nil); err != nil {
		return err
	}
	if err := b.Delete(metaKey(id), nil); err != nil {
		return err
	}
	return b.Commit(pebble.Sync)
}

func (a *Archive) Close() error {
	return a.db.Close()
}
