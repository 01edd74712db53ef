// Package session holds the current identity token and user profile.
//
// The store is the only shared mutable state in the client. Every flow gets
// the same *Store; none of them reaches into storage directly.
package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"issuepilot/internal/logger"
	"issuepilot/internal/model"
	"issuepilot/internal/storage"
)

// Exactly these two keys exist in durable storage; together they mean "logged in".
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is the session service: Get, Set, Clear over a storage.KV.
type Store struct {
	kv storage.KV
}

func New(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Get returns the session when both keys are present and the token is non-empty.
// Storage failures and unreadable profiles read as "no session".
func (s *Store) Get() (model.Session, bool) {
	token, ok, err := s.kv.Get(KeyToken)
	if err != nil {
		logger.Warn().Err(err).Msg("session: reading token")
		return model.Session{}, false
	}
	if !ok || token == "" {
		return model.Session{}, false
	}

	raw, ok, err := s.kv.Get(KeyUser)
	if err != nil {
		logger.Warn().Err(err).Msg("session: reading user")
		return model.Session{}, false
	}
	if !ok {
		return model.Session{}, false
	}

	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		logger.Warn().Err(err).Msg("session: stored user is not valid JSON")
		return model.Session{}, false
	}
	return model.Session{Token: token, User: u}, true
}

// Token returns the current token, or "" when unauthenticated.
func (s *Store) Token() string {
	sess, ok := s.Get()
	if !ok {
		return ""
	}
	return sess.Token
}

// Set replaces the stored session.
func (s *Store) Set(sess model.Session) error {
	if sess.Token == "" {
		return fmt.Errorf("session: empty token")
	}
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("session: encoding user: %w", err)
	}
	return s.kv.SetMany(map[string]string{
		KeyToken: sess.Token,
		KeyUser:  string(raw),
	})
}

// Clear removes both keys. Afterwards Get reports no session.
func (s *Store) Clear() error {
	return s.kv.Delete(KeyToken, KeyUser)
}

// MergeProfile writes name and role into the stored user, keeping the token
// and other profile fields. It returns the merged user.
func (s *Store) MergeProfile(name, role string) (model.User, error) {
	sess, ok := s.Get()
	if !ok {
		return model.User{}, fmt.Errorf("session: no active session")
	}
	sess.User.Name = name
	sess.User.Role = role
	if err := s.Set(sess); err != nil {
		return model.User{}, err
	}
	return sess.User, nil
}

// TokenInfo is what the client can read from a JWT without the signing key.
// It is informational only; the server decides whether a token is valid.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims decodes the token's claims without verifying the signature.
func Claims(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("session: token is not a JWT: %w", err)
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
