// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps template editor sessions in Valkey. Each session
// holds one serialized editor (working document, selection and drag
// capture) as JSON with automatic TTL expiry, so any instance of the
// service can continue an editing session.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"idcards/internal/editor"
)

const (
	// CookieName is the cookie the browser uses to find its editor session.
	CookieName = "idc_editor"

	// DefaultTTL is how long an idle editor session lives in Valkey.
	DefaultTTL = 8 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "editor:"

	// idLength is the byte length of the random session ID (16 bytes = 32 hex chars).
	idLength = 16
)

// ErrNoSession is returned by Update for sessions that expired or never
// existed.
var ErrNoSession = errors.New("editor session not found")

// Store manages editor session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// secure marks the session cookie Secure, for deployments behind TLS.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Create stores a new session holding st and sets the session cookie on
// the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, st editor.State) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	if err := s.put(ctx, id, st); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
	return id, nil
}

// Get loads the editor state of session id. Returns nil if the session
// expired or does not exist.
func (s *Store) Get(ctx context.Context, id string) (*editor.State, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var st editor.State
	if err := json.Unmarshal(payload, &st); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &st, nil
}

// Update replaces the state of an existing session and resets its TTL.
func (s *Store) Update(ctx context.Context, id string, st editor.State) error {
	n, err := s.client.Exists(ctx, keyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session update %s: %w", id, ErrNoSession)
	}
	if err := s.put(ctx, id, st); err != nil {
		return fmt.Errorf("session update: %w", err)
	}
	return nil
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return nil
}

// FromRequest returns the session ID carried by the request cookie, or ""
// when there is none.
func FromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Store) put(ctx context.Context, id string, st editor.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err()
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
