package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/void2610/online-type-game/internal/client/repositories/metadata"
	"github.com/void2610/online-type-game/internal/cryptox"
	"github.com/void2610/online-type-game/internal/dbx"
)

const (
	// SessionKey is the metadata slot holding the serialized session.
	SessionKey = "auth.session"
	// SaltKey holds the argon2 salt when the session is sealed.
	SaltKey = "auth.salt"
)

var errMissingSalt = errors.New("sealed session without salt")

// SessionStore is the durable slot for one serialized session. Load returns
// (nil, nil) when nothing is stored.
type SessionStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	Delete(ctx context.Context) error
}

// MetadataStore keeps the session in the local metadata table. With a
// non-empty passphrase the blob is sealed with AES-GCM under an argon2 key;
// the salt is created on first save and stored next to it.
type MetadataStore struct {
	db         *sql.DB
	passphrase []byte

	mu   sync.Mutex
	key  []byte
	salt []byte
}

func NewMetadataStore(db *sql.DB, passphrase string) *MetadataStore {
	s := &MetadataStore{db: db}
	if passphrase != "" {
		s.passphrase = []byte(passphrase)
	}
	return s
}

// Sealed reports whether blobs are encrypted at rest.
func (s *MetadataStore) Sealed() bool { return s.passphrase != nil }

func (s *MetadataStore) Load(ctx context.Context) ([]byte, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	blob, err := repo.Get(ctx, SessionKey)
	if err != nil || blob == nil || !s.Sealed() {
		return blob, err
	}

	salt, err := repo.Get(ctx, SaltKey)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		return nil, errMissingSalt
	}
	return cryptox.Open(s.keyFor(salt), blob)
}

func (s *MetadataStore) Save(ctx context.Context, blob []byte) error {
	return dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if !s.Sealed() {
			return repo.Set(ctx, SessionKey, blob)
		}

		salt, err := repo.Get(ctx, SaltKey)
		if err != nil {
			return err
		}
		if salt == nil {
			if salt, err = cryptox.NewSalt(); err != nil {
				return err
			}
			if err := repo.Set(ctx, SaltKey, salt); err != nil {
				return err
			}
		}

		sealed, err := cryptox.Seal(s.keyFor(salt), blob)
		if err != nil {
			return fmt.Errorf("seal session: %w", err)
		}
		return repo.Set(ctx, SessionKey, sealed)
	})
}

// Delete removes the session. The salt is kept so later saves reuse it.
func (s *MetadataStore) Delete(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, SessionKey)
}

// keyFor derives the key once per salt.
func (s *MetadataStore) keyFor(salt []byte) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil || string(s.salt) != string(salt) {
		s.key = cryptox.DeriveKey(s.passphrase, salt)
		s.salt = append([]byte(nil), salt...)
	}
	return s.key
}
