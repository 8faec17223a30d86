package contextx

import (
	"context"
	"fmt"
)

// AccountID identifies the game account an inventory snapshot belongs to.
type AccountID string

type contextKeyAccountID struct{}

func (a AccountID) String() string {
	return string(a)
}

func WithAccountID(ctx context.Context, accountID AccountID) context.Context {
	return context.WithValue(ctx, contextKeyAccountID{}, accountID)
}

func AccountIDFromContext(ctx context.Context) (AccountID, error) {
	accountID, ok := ctx.Value(contextKeyAccountID{}).(AccountID)
	if !ok {
		return "", fmt.Errorf("account id: %w", ErrNoValue)
	}

	return accountID, nil
}
