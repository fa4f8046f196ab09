package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidInvite = errors.New("invalid invite")

// InviteJWT signs and checks tokens that name a room. An invite only selects
// a room; it carries no user identity.
type InviteJWT struct {
	jwtSecret string
	ttl       time.Duration
}

func NewInviteJWT(jwtSecret string, ttl time.Duration) *InviteJWT {
	return &InviteJWT{jwtSecret, ttl}
}

func (i InviteJWT) GenerateInviteJWT(roomID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"room": roomID, "exp": jwt.NewNumericDate(time.Now().Add(i.ttl))})
	return token.SignedString([]byte(i.jwtSecret))
}

func (i InviteJWT) GetRoomIDFromInviteJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(i.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidInvite
	}
	roomID, ok := claims["room"].(string)
	if !ok || roomID == "" {
		return "", fmt.Errorf("%w: missing room", ErrInvalidInvite)
	}
	return roomID, nil
}
