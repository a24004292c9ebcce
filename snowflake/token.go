package snowflake

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/oauth2"
)

// DefaultTokenPath is where Snowpark Container Services mounts the session's OAuth token.
const DefaultTokenPath = "/snowflake/session/token"

type fileTokenSource struct {
	path string
}

// FileTokenSource returns an [oauth2.TokenSource] reading a bearer token from the file at path.
//
// Every call to Token reads the file again;
// wrap it in [oauth2.ReuseTokenSource] to avoid that.
// The contents are trimmed of surrounding whitespace.
// If the token is a JWT, its exp claim sets [oauth2.Token.Expiry];
// the signature is not verified.
func FileTokenSource(path string) oauth2.TokenSource {
	return fileTokenSource{path: path}
}

// Token implements [oauth2.TokenSource].
func (s fileTokenSource) Token() (*oauth2.Token, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenIO, err)
	}

	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrTokenIO, s.path)
	}

	return &oauth2.Token{
		AccessToken: tok,
		TokenType:   "Bearer",
		Expiry:      tokenExpiry(tok),
	}, nil
}

// tokenExpiry reads the exp claim of tok,
// returning the zero time.Time if tok is not a JWT or carries no exp.
func tokenExpiry(tok string) time.Time {
	claims := new(jwt.RegisteredClaims)
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}
	}

	if claims.ExpiresAt == nil {
		return time.Time{}
	}

	return claims.ExpiresAt.Time
}
