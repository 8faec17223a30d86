package value

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidAccountID = errors.New("invalid account id")

	accountIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`) //nolint:gochecknoglobals
)

// AccountID uuid игрового аккаунта без дефисов в нижнем регистре.
type AccountID string

// ParseAccountID принимает uuid с дефисами и без.
func ParseAccountID(s string) (AccountID, error) {
	id := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", ""))
	if !accountIDPattern.MatchString(id) {
		return "", ErrInvalidAccountID
	}

	return AccountID(id), nil
}

func (a AccountID) String() string {
	return string(a)
}
