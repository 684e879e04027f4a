package main

import (
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	platformauth "github.com/zenGate-Global/haulage-backoffice/platform/go/auth"
	"github.com/zenGate-Global/haulage-backoffice/platform/go/session"
)

// buildSessionGate constructs the cookie session manager and the auth gate on top of it.
// Keys may be given as hex; anything else is used as raw bytes.
func buildSessionGate(cfg config, logger *zap.Logger) (*session.Manager, *platformauth.Gate, error) {
	hashKey := decodeKey(cfg.SessionHashKey)
	if len(hashKey) < 32 {
		return nil, nil, fmt.Errorf("SESSION_HASH_KEY must be at least 32 bytes, got %d", len(hashKey))
	}

	blockKey := decodeKey(cfg.SessionBlockKey)
	switch len(blockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, nil, fmt.Errorf("SESSION_BLOCK_KEY must be 16, 24 or 32 bytes, got %d", len(blockKey))
	}
	if len(blockKey) == 0 {
		logger.Warn("SESSION_BLOCK_KEY not set; session cookies are signed but not encrypted")
	}

	sessions := session.NewCookieManager(session.Config{
		HashKey:  hashKey,
		BlockKey: blockKey,
		Secure:   cfg.SessionSecure,
		MaxAge:   int(cfg.SessionMaxAge.Seconds()),
	})
	return sessions, platformauth.NewGate(sessions, logger), nil
}

func decodeKey(raw string) []byte {
	if raw == "" {
		return nil
	}
	if b, err := hex.DecodeString(raw); err == nil {
		return b
	}
	return []byte(raw)
}
