package auth

import "time"

// Strategy issues and verifies identity tokens for buyers and
// representatives. User accounts themselves live outside this service.
type Strategy interface {
	IssueToken(userID int64) (string, error)
	ParseToken(token string) (int64, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
