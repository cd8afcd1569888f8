package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"music-stream-core/internal/core/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims 访问令牌载荷；Role 取值 "user" / "admin"（由 UserType 推导）
type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// NewJWTer 按配置创建；TTL 缺省 60 分钟
func NewJWTer(c config.JWT) *JWTer {
	ttl := time.Duration(c.AccessTokenTTLMin) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTer{Secret: []byte(c.Secret), Issuer: c.Issuer, TTL: ttl}
}

func (j *JWTer) Issue(uid, role string) (string, error) {
	if uid == "" {
		return "", errors.New("issue token: empty uid")
	}
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.UID != "" {
		return c, nil
	}
	return nil, ErrInvalidToken
}
