package cli

import (
	"context"
	"fmt"
	"time"
)

// countdownInterval is how often Unlock redraws; tests shorten it.
var countdownInterval = time.Second

// Status prints the signed-in user and the lock state.
func (a *App) Status(_ context.Context) error {
	st := a.auth.State()

	if st.IsAuthenticated {
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", st.User.DisplayName(), st.User.Email)
	} else {
		fmt.Fprintln(a.out, "Not signed in")
	}

	switch {
	case st.IsAccountLocked && a.auth.LockRemaining() > 0:
		fmt.Fprintf(a.out, "Account locked, %s remaining\n", formatCountdown(a.auth.LockRemaining()))
	case st.FailedLoginAttempts > 0:
		fmt.Fprintf(a.out, "Failed login attempts: %d of %d\n", st.FailedLoginAttempts, a.maxAttempts)
	}
	return nil
}

// Unlock counts down the remaining lock time and returns once login can be
// retried. The lock itself is cleared by the next login attempt.
func (a *App) Unlock(ctx context.Context) error {
	left := a.auth.LockRemaining()
	if left <= 0 {
		fmt.Fprintln(a.out, "Account is not locked")
		return nil
	}

	ticker := time.NewTicker(countdownInterval)
	defer ticker.Stop()

	for left > 0 {
		fmt.Fprintf(a.out, "\rTry again in %s ", formatCountdown(left))
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.out)
			return ctx.Err()
		case <-ticker.C:
		}
		left = a.auth.LockRemaining()
	}

	fmt.Fprintln(a.out, "\rYou can try logging in again")
	return nil
}
