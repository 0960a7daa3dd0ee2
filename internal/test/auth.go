package test

// TokenParserStub implements the identity strategy contract for
// middleware tests.
type TokenParserStub struct {
	ID      int64
	Err     error
	ParseFn func(string) (int64, error)
}

// IssueToken returns a fixed token.
func (s TokenParserStub) IssueToken(userID int64) (string, error) {
	return "stub-token", nil
}

// ParseToken either delegates to override or returns predefined result.
func (s TokenParserStub) ParseToken(token string) (int64, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	if s.Err != nil {
		return 0, s.Err
	}
	return s.ID, nil
}

// Name identifies the stub strategy.
func (s TokenParserStub) Name() string { return "stub" }
