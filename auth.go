package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	jwtExpiry        = 7 * 24 * time.Hour
	bcryptCost       = 12
	minUsernameLen   = 2
	maxUsernameLen   = 16
	minPasswordLen   = 4
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
)

// Auth owns account creation and token issuance. Tokens are HMAC-signed
// JWTs; the signing secret lives in the settings table so tokens survive
// server restarts. Accounts are optional — guests play without one.
type Auth struct {
	db        *DB
	jwtSecret []byte
	limiter   loginLimiter
}

// loginLimiter caps login attempts per source IP over a fixed window.
type loginLimiter struct {
	mu      sync.Mutex
	windows map[string]*loginWindow
}

type loginWindow struct {
	attempts int
	resetAt  time.Time
}

// allow records one attempt from ip and reports whether it is still
// within the per-window budget.
func (l *loginLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[ip]
	if !ok || now.After(w.resetAt) {
		l.windows[ip] = &loginWindow{attempts: 1, resetAt: now.Add(loginRateWindow)}
		return true
	}
	w.attempts++
	return w.attempts <= maxLoginAttempts
}

func NewAuth(db *DB) *Auth {
	return &Auth{
		db:        db,
		jwtSecret: loadOrCreateSecret(db),
		limiter:   loginLimiter{windows: make(map[string]*loginWindow)},
	}
}

// loadOrCreateSecret returns the persisted signing secret, minting and
// storing a fresh one on first run (or when the stored value is unusable).
func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist JWT secret: %v", err)
		}
	}
	return secret
}

// Register creates an account and returns its id plus a fresh token.
// Internal failures are reported generically; only validation problems
// carry detail back to the client.
func (a *Auth) Register(username, password string) (int64, string, error) {
	username = strings.TrimSpace(username)
	if len(username) < minUsernameLen || len(username) > maxUsernameLen {
		return 0, "", fmt.Errorf("username must be %d-%d characters", minUsernameLen, maxUsernameLen)
	}
	if len(password) < minPasswordLen {
		return 0, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	taken, err := a.db.UsernameExists(username)
	if err != nil {
		return 0, "", fmt.Errorf("database error")
	}
	if taken {
		return 0, "", fmt.Errorf("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}
	id, err := a.db.CreatePlayer(username, string(hash))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create account")
	}

	token, err := a.signToken(id, username)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}
	return id, token, nil
}

// Login verifies credentials and returns the player id plus a fresh token.
// Unknown users and bad passwords produce the same error, and attempts are
// rate limited per IP before the database is touched.
func (a *Auth) Login(username, password, ip string) (int64, string, error) {
	if !a.limiter.allow(ip) {
		return 0, "", fmt.Errorf("too many login attempts, try again later")
	}

	player, err := a.db.GetPlayerByUsername(username)
	if err != nil {
		return 0, "", fmt.Errorf("database error")
	}
	if player == nil || player.PassHash == "" {
		return 0, "", fmt.Errorf("invalid username or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(player.PassHash), []byte(password)) != nil {
		return 0, "", fmt.Errorf("invalid username or password")
	}

	token, err := a.signToken(player.ID, player.Username)
	if err != nil {
		return 0, "", fmt.Errorf("internal error")
	}
	return player.ID, token, nil
}

// ValidateToken checks a token's signature and expiry and returns the
// identity it carries.
func (a *Auth) ValidateToken(tokenStr string) (int64, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return 0, "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	pid, ok := claims["pid"].(float64)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	username, ok := claims["usr"].(string)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}
	return int64(pid), username, nil
}

func (a *Auth) signToken(playerID int64, username string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"pid": playerID,
		"usr": username,
		"iat": now.Unix(),
		"exp": now.Add(jwtExpiry).Unix(),
	})
	return token.SignedString(a.jwtSecret)
}
