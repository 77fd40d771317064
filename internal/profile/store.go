package profile

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/accountsetup/internal/common"
	"github.com/dmitrijs2005/accountsetup/internal/storage/metadata"
)

// UserDataKey is the fixed metadata key of the profile (one account per install).
const UserDataKey = "@user_data"

// Store reads and writes the profile as JSON through a key/value repository.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Save overwrites the stored profile.
func (s *Store) Save(ctx context.Context, u *User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.repo.Set(ctx, UserDataKey, data)
}

// Load returns (nil, nil) when no profile is stored and an error wrapping
// common.ErrorCorrupt when the stored bytes are not a profile.
func (s *Store) Load(ctx context.Context) (*User, error) {
	data, err := s.repo.Get(ctx, UserDataKey)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode profile: %w: %v", common.ErrorCorrupt, err)
	}
	if u.ID == "" {
		return nil, fmt.Errorf("decode profile: %w: missing id", common.ErrorCorrupt)
	}
	return &u, nil
}
