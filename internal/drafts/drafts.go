// Package drafts keeps a partially filled registration form between runs so
// the user does not have to retype it after an interruption. Passwords are
// never part of a draft.
package drafts

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/accountsetup/internal/common"
	"github.com/dmitrijs2005/accountsetup/internal/dbx"
	"github.com/dmitrijs2005/accountsetup/internal/storage/metadata"
)

// StorageKey is the metadata key of the persisted draft.
const StorageKey = "registration-storage"

// Draft holds the non-secret registration fields entered so far.
type Draft struct {
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Country     string `json:"country,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`
}

// merge copies the non-empty fields of patch over d.
func (d *Draft) merge(patch Draft) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&d.Email, patch.Email)
	set(&d.FirstName, patch.FirstName)
	set(&d.LastName, patch.LastName)
	set(&d.Phone, patch.Phone)
	set(&d.Country, patch.Country)
	set(&d.DateOfBirth, patch.DateOfBirth)
	set(&d.Address, patch.Address)
	set(&d.City, patch.City)
	set(&d.ZipCode, patch.ZipCode)
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save merges patch into the stored draft in a single transaction.
func (s *Store) Save(ctx context.Context, patch Draft) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		current, err := load(ctx, repo)
		if err != nil {
			return err
		}
		if current == nil {
			current = &Draft{}
		}
		current.merge(patch)

		data, err := json.Marshal(current)
		if err != nil {
			return fmt.Errorf("encode draft: %w", err)
		}
		return repo.Set(ctx, StorageKey, data)
	})
}

// Get returns the stored draft, or nil when there is none.
func (s *Store) Get(ctx context.Context) (*Draft, error) {
	return load(ctx, metadata.NewSQLiteRepository(s.db))
}

// Clear drops the draft, typically after a successful registration.
func (s *Store) Clear(ctx context.Context) error {
	return metadata.NewSQLiteRepository(s.db).Delete(ctx, StorageKey)
}

func load(ctx context.Context, repo metadata.Repository) (*Draft, error) {
	data, err := repo.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w: %v", common.ErrorCorrupt, err)
	}
	return &d, nil
}
