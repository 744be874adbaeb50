// Package auth implements the identity collaborators the order core depends
// on: bearer-token verification and business-user lookup. The core treats
// both as opaque; any failure is reported as a bare unauthorized error with
// no detail about the cause.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUnauthorized = errors.New("unauthorized")

// Claims is the access-token payload issued by the auth service.
type Claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

// Verifier checks HMAC-signed access tokens.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify returns the subject user id for a valid token. Every failure mode
// (malformed, bad signature, expired) collapses into ErrUnauthorized.
func (v *Verifier) Verify(accessToken string) (int64, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrUnauthorized
	}
	return claims.UserID, nil
}

// Sign issues a token for the given user id. Used by tests and by the auth
// service, which shares the secret.
func (v *Verifier) Sign(userID int64) (string, error) {
	claims := &Claims{UserID: userID}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// BusinessUser is a staff member of one shop.
type BusinessUser struct {
	ID     int64
	ShopID int64
	Role   string
}

// Directory resolves verified user ids to their shop and role.
type Directory struct {
	pool *pgxpool.Pool
}

func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

// Lookup fetches the business user; an unknown id is an authorization
// failure, not a not-found.
func (d *Directory) Lookup(ctx context.Context, userID int64) (BusinessUser, error) {
	user := BusinessUser{ID: userID}
	err := d.pool.QueryRow(ctx,
		`SELECT shop_id, role FROM business_users WHERE id = $1`, userID,
	).Scan(&user.ShopID, &user.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BusinessUser{}, ErrUnauthorized
		}
		return BusinessUser{}, err
	}
	return user, nil
}
