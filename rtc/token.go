// rtc/token.go
package rtc

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrNotConfigured = errors.New("rtc token issuing not configured")

// TokenIssuer signs per-channel join tokens for the external voice
// provider. The channel is derived from the room code and the uid is the
// provider-side numeric participant id; voice audio never flows through
// this process.
type TokenIssuer struct {
	appID  string
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(appID, secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		appID:  appID,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// ChannelName maps a room code onto its voice channel.
func ChannelName(roomCode string) string {
	return fmt.Sprintf("room-%s", roomCode)
}

// ChannelToken issues a signed join token for one participant in one
// room's voice channel.
func (t *TokenIssuer) ChannelToken(roomCode string, uid uint32) (token string, expires int64, err error) {
	if len(t.secret) == 0 {
		return "", 0, ErrNotConfigured
	}

	expires = time.Now().Add(t.ttl).Unix()
	claims := jwt.MapClaims{
		"app":     t.appID,
		"channel": ChannelName(roomCode),
		"uid":     uid,
		"exp":     expires,
		"iat":     time.Now().Unix(),
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", 0, err
	}
	return token, expires, nil
}
