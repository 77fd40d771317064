// Package vault is the secure credential store: a small keychain-like
// capability set (set/get/delete a username+secret pair per service) with
// an SQLite implementation that keeps secrets sealed with AES-GCM.
package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accountsetup/internal/common"
	"github.com/dmitrijs2005/accountsetup/internal/cryptox"
	"github.com/dmitrijs2005/accountsetup/internal/dbx"
)

// Service identifiers used by the auth store.
const (
	ServiceCredentials = "com.accountsetup.credentials"
	ServiceSession     = "com.accountsetup.session"

	// SessionUsername is the fixed username stored next to a session token.
	SessionUsername = "session"
)

// Credentials is a username+secret pair held under one service.
type Credentials struct {
	Username string
	Secret   []byte
}

// Vault is the credential store consumed by the auth store.
//
// Get returns (nil, nil) when nothing is stored for the service. Set
// overwrites any previous entry. Delete of a missing entry succeeds.
type Vault interface {
	Set(ctx context.Context, service, username string, secret []byte) error
	Get(ctx context.Context, service string) (*Credentials, error)
	Delete(ctx context.Context, service string) error
}

// DeriveKey turns the install key into the vault's sealing key.
func DeriveKey(installKey []byte) []byte {
	return cryptox.DeriveKey(installKey, []byte("accountsetup/vault/v1"))
}

// SQLiteVault stores one row per service in the vault table. The secret is
// sealed with the service id as additional data, so rows cannot be swapped
// between services.
type SQLiteVault struct {
	db  dbx.DBTX
	key []byte
}

// NewSQLiteVault expects a key produced by DeriveKey.
func NewSQLiteVault(db dbx.DBTX, key []byte) *SQLiteVault {
	return &SQLiteVault{db: db, key: key}
}

func (v *SQLiteVault) Set(ctx context.Context, service, username string, secret []byte) error {
	sealed, nonce, err := cryptox.Seal(v.key, secret, []byte(service))
	if err != nil {
		return fmt.Errorf("seal secret for %s: %w", service, err)
	}

	_, err = v.db.ExecContext(ctx, `
		INSERT INTO vault (service, username, secret, nonce, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(service) DO UPDATE SET
			username = excluded.username,
			secret = excluded.secret,
			nonce = excluded.nonce,
			updated_at = excluded.updated_at
	`, service, username, sealed, nonce)
	if err != nil {
		return fmt.Errorf("failed to set vault[%s]: %w", service, err)
	}
	return nil
}

func (v *SQLiteVault) Get(ctx context.Context, service string) (*Credentials, error) {
	var (
		username      string
		sealed, nonce []byte
	)
	err := v.db.QueryRowContext(ctx,
		`SELECT username, secret, nonce FROM vault WHERE service = ?`, service,
	).Scan(&username, &sealed, &nonce)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vault[%s]: %w", service, err)
	}

	secret, err := cryptox.Open(v.key, sealed, nonce, []byte(service))
	if err != nil {
		return nil, fmt.Errorf("open vault[%s]: %w: %v", service, common.ErrorCorrupt, err)
	}
	return &Credentials{Username: username, Secret: secret}, nil
}

func (v *SQLiteVault) Delete(ctx context.Context, service string) error {
	if _, err := v.db.ExecContext(ctx, `DELETE FROM vault WHERE service = ?`, service); err != nil {
		return fmt.Errorf("failed to delete vault[%s]: %w", service, err)
	}
	return nil
}
