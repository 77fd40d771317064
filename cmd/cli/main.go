package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/accountsetup/internal/auth"
	"github.com/dmitrijs2005/accountsetup/internal/buildinfo"
	"github.com/dmitrijs2005/accountsetup/internal/cli"
	"github.com/dmitrijs2005/accountsetup/internal/config"
	"github.com/dmitrijs2005/accountsetup/internal/cryptox"
	"github.com/dmitrijs2005/accountsetup/internal/drafts"
	"github.com/dmitrijs2005/accountsetup/internal/filex"
	"github.com/dmitrijs2005/accountsetup/internal/logging"
	"github.com/dmitrijs2005/accountsetup/internal/profile"
	"github.com/dmitrijs2005/accountsetup/internal/storage"
	"github.com/dmitrijs2005/accountsetup/internal/storage/metadata"
	"github.com/dmitrijs2005/accountsetup/internal/vault"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := run(ctx, cfg, os.Stdin, os.Stdout, os.Stderr); err != nil && ctx.Err() == nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out, logOut io.Writer) error {
	logger := logging.New(logOut, cfg.LogLevel)

	installKey, err := cryptox.LoadOrCreateKey(cfg.KeyFilePath)
	if err != nil {
		return fmt.Errorf("install key: %w", err)
	}

	if err := filex.EnsureParentDir(cfg.DatabasePath); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return err
	}
	defer db.Close()

	meta := metadata.NewSQLiteRepository(db)

	store := auth.New(auth.Deps{
		Vault:    vault.NewSQLiteVault(db, vault.DeriveKey(installKey)),
		Profiles: profile.NewStore(meta),
		Lockouts: meta,
		Tokens:   auth.NewJWTIssuer(auth.DeriveTokenKey(installKey)),
		Logger:   logger,
	}, auth.Options{
		MaxLoginAttempts: cfg.MaxLoginAttempts,
		LockDuration:     cfg.LockDuration,
		IOTimeout:        cfg.IOTimeout,
	})

	app := cli.NewApp(store, drafts.NewStore(db), logger, cfg.MaxLoginAttempts, in, out)
	return app.Run(ctx)
}
