package session

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jobportal-web/pkg/models"
)

// Role is the account role carried in the token payload
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the signed-in account as far as the front end knows it
type Identity struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Claims is the payload of a portal session token
type Claims struct {
	UserID int64 `json:"id"`
	Role   Role  `json:"role"`
	jwt.RegisteredClaims
}

// UnmarshalJSON accepts any JSON object. The id may be a number or a
// numeric string; fields of an unexpected type are left empty.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID   json.RawMessage `json:"id"`
		Role json.RawMessage `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Claims{}
	var id models.FlexInt
	if len(raw.ID) > 0 && json.Unmarshal(raw.ID, &id) == nil {
		c.UserID = int64(id)
	}
	var role string
	if len(raw.Role) > 0 && json.Unmarshal(raw.Role, &role) == nil {
		c.Role = Role(role)
	}
	if json.Unmarshal(data, &c.RegisteredClaims) != nil {
		c.RegisteredClaims = jwt.RegisteredClaims{}
	}
	return nil
}

// Identity returns the id and role carried by the claims
func (c *Claims) Identity() Identity {
	return Identity{ID: c.UserID, Role: c.Role}
}

// ExpiresIn returns the time left until exp, or zero when the token has no exp
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode reads the payload of a three-segment token without verifying its
// signature or expiry. Any structural, base64url or JSON problem reports the
// token as absent; a payload that is not a JSON object counts as bad JSON.
func Decode(token string) (*Claims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	payload, err := segmentParser.DecodeSegment(parts[1])
	if err != nil {
		return nil, false
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil, false
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, false
	}

	return &claims, true
}
