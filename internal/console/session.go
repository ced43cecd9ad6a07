package console

import (
	"context"
	"errors"

	"github.com/wtusfo/song-and-singer/internal/models"
)

// ErrNotAdmin is returned when the review console is opened without the admin role.
var ErrNotAdmin = errors.New("access denied: the review console requires the admin role")

// Session is the signed-in account, fetched once and handed to the views.
type Session struct {
	Account models.Account
}

type accountFetcher interface {
	Me(ctx context.Context) (*models.Account, error)
}

func NewSession(ctx context.Context, client accountFetcher) (*Session, error) {
	account, err := client.Me(ctx)
	if err != nil {
		return nil, err
	}
	return &Session{Account: *account}, nil
}

// RequireAdmin fails unless the session may use the review console.
func (s *Session) RequireAdmin() error {
	if s == nil || !s.Account.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}
