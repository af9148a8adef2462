package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/your-org/bookstore-backend/internal/pkg/session"
)

// Session field holding the cart token
const cartSessionKey = "cart_id"

// ResolveCartToken returns the cart token of the session attached to ctx,
// minting and storing a new one on first use. Repeated calls within one
// session always yield the same token.
func ResolveCartToken(ctx context.Context) (string, error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return "", ErrSessionUnavailable
	}

	token, err := sess.GetOrSet(ctx, cartSessionKey, uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSessionStoreUnavailable, err)
	}

	return token, nil
}

// LookupCartToken returns the cart token of the session attached to ctx
// without minting one. found is false when the session has no cart yet.
func LookupCartToken(ctx context.Context) (token string, found bool, err error) {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return "", false, ErrSessionUnavailable
	}

	token, found, err = sess.Get(ctx, cartSessionKey)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrSessionStoreUnavailable, err)
	}

	return token, found, nil
}
