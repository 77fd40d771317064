package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *config.Config {
	return &config.Config{
		DatabasePath:     filepath.Join(dir, "data", "account.db"),
		KeyFilePath:      filepath.Join(dir, "keys", "install.key"),
		MaxLoginAttempts: 5,
		LockDuration:     2 * time.Minute,
		IOTimeout:        5 * time.Second,
		LogLevel:         "error",
	}
}

func TestRun_EndToEnd(t *testing.T) {
	cfg := testConfig(t.TempDir())
	ctx := context.Background()

	script := strings.Join([]string{
		"register",
		"jane@example.com", "Jane", "Doe", "+1 555 010 0000", "US", "", "1 Main St", "", "",
		"Str0ng!pass", "Str0ng!pass",
		"exit",
	}, "\n") + "\n"
	var out bytes.Buffer
	require.NoError(t, run(ctx, cfg, strings.NewReader(script), &out, &bytes.Buffer{}))
	assert.Contains(t, out.String(), "Welcome, Jane Doe!")

	// second start restores the session, then signs out
	out.Reset()
	require.NoError(t, run(ctx, cfg, strings.NewReader("logout\nexit\n"), &out, &bytes.Buffer{}))
	assert.Contains(t, out.String(), "Welcome back, Jane Doe!")
	assert.Contains(t, out.String(), "Signed out")

	// third start: no session, wrong password
	out.Reset()
	require.NoError(t, run(ctx, cfg, strings.NewReader("login\njane@example.com\nnope\nexit\n"), &out, &bytes.Buffer{}))
	assert.NotContains(t, out.String(), "Welcome back")
	assert.Contains(t, out.String(), "(4 attempts left)")
}
