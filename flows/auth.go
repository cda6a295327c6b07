package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/akhror/zavodbot/storage"
)

// ErrUnauthorized marks a user who is not registered as an operator.
var ErrUnauthorized = errors.New("flows: unauthorized")

// Authorize resolves the operator behind a Telegram user id. Unknown
// users get ErrUnauthorized; other storage failures pass through.
func (d *Deps) Authorize(ctx context.Context, userID int64) (*storage.User, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	user, err := d.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("flows: authorize %d: %w", userID, err)
	}
	return user, nil
}
