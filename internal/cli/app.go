package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/accountsetup/internal/auth"
	"github.com/dmitrijs2005/accountsetup/internal/drafts"
	"github.com/dmitrijs2005/accountsetup/internal/logging"
)

// AuthStore is the part of *auth.Store the CLI drives.
type AuthStore interface {
	Register(ctx context.Context, reg auth.Registration) error
	Login(ctx context.Context, identifier string, password []byte) error
	Logout(ctx context.Context) error
	CheckSession(ctx context.Context) error
	State() auth.State
	LockRemaining() time.Duration
}

// DraftStore keeps the registration fields entered so far.
type DraftStore interface {
	Save(ctx context.Context, patch drafts.Draft) error
	Get(ctx context.Context) (*drafts.Draft, error)
	Clear(ctx context.Context) error
}

type App struct {
	auth        AuthStore
	drafts      DraftStore
	logger      logging.Logger
	maxAttempts int
	reader      *bufio.Reader
	ttyFd       int
	out         io.Writer
}

// NewApp builds the CLI over in and out. maxAttempts is only used to tell the
// user how many tries are left.
func NewApp(store AuthStore, ds DraftStore, logger logging.Logger, maxAttempts int, in io.Reader, out io.Writer) *App {
	return &App{
		auth:        store,
		drafts:      ds,
		logger:      logger,
		maxAttempts: maxAttempts,
		reader:      bufio.NewReader(in),
		ttyFd:       terminalFd(in),
		out:         out,
	}
}

// Run restores the stored session, then serves commands until the user exits.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Welcome to accountsetup (type 'help' for commands)")

	if err := a.auth.CheckSession(ctx); err != nil {
		a.logger.Error(ctx, "session restore failed", "error", err)
		fmt.Fprintln(a.out, "Could not restore your session:", err)
	}
	if st := a.auth.State(); st.IsAuthenticated {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", st.User.DisplayName())
	}

	runREPL(ctx, a, a.getStatus, a.reader)
	return ctx.Err()
}

func (a *App) isLoggedIn() bool {
	return a.auth.State().IsAuthenticated
}

// getStatus is shown in the prompt: the signed-in user or the lock countdown.
func (a *App) getStatus() string {
	st := a.auth.State()
	switch {
	case st.IsAuthenticated:
		return fmt.Sprintf("(%s) ", st.User.DisplayName())
	case st.IsAccountLocked:
		if left := a.auth.LockRemaining(); left > 0 {
			return fmt.Sprintf("(locked %s) ", formatCountdown(left))
		}
	}
	return ""
}

// formatCountdown renders d as m:ss, rounding partial seconds up.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
