package session

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(payload string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return header + "." + body + ".c2lnbmF0dXJl"
}

func TestDecode(t *testing.T) {
	t.Run("admin payload", func(t *testing.T) {
		claims, ok := Decode(makeToken(`{"id":1,"role":"admin","iat":1700000000}`))
		require.True(t, ok)
		assert.Equal(t, Identity{ID: 1, Role: RoleAdmin}, claims.Identity())
		assert.True(t, claims.Identity().IsAdmin())
	})

	t.Run("user payload with exp", func(t *testing.T) {
		exp := time.Now().Add(2 * time.Hour).Unix()
		claims, ok := Decode(makeToken(`{"id":42,"role":"user","exp":` + strconv.FormatInt(exp, 10) + `}`))
		require.True(t, ok)
		assert.Equal(t, int64(42), claims.UserID)
		assert.Equal(t, RoleUser, claims.Role)
		assert.InDelta(t, (2 * time.Hour).Seconds(), claims.ExpiresIn(time.Now()).Seconds(), 5)
	})

	t.Run("padded segment", func(t *testing.T) {
		body := base64.URLEncoding.EncodeToString([]byte(`{"id":3,"role":"user"}`))
		claims, ok := Decode("aGVhZGVy." + body + ".sig")
		require.True(t, ok)
		assert.Equal(t, int64(3), claims.UserID)
	})

	t.Run("no exp means no expiry", func(t *testing.T) {
		claims, ok := Decode(makeToken(`{"id":1,"role":"user"}`))
		require.True(t, ok)
		assert.Zero(t, claims.ExpiresIn(time.Now()))
	})

	t.Run("lenient field types", func(t *testing.T) {
		tests := []struct {
			payload string
			want    Identity
		}{
			{`{"id":"7","role":"admin"}`, Identity{ID: 7, Role: RoleAdmin}},
			{`{"id":7.0,"role":"user"}`, Identity{ID: 7, Role: RoleUser}},
			{`{"id":"one","role":"admin"}`, Identity{Role: RoleAdmin}},
			{`{"id":9,"role":5}`, Identity{ID: 9}},
			{`{"id":9,"role":"user","exp":"soon"}`, Identity{ID: 9, Role: RoleUser}},
		}
		for _, tt := range tests {
			claims, ok := Decode(makeToken(tt.payload))
			require.True(t, ok, tt.payload)
			assert.Equal(t, tt.want, claims.Identity(), tt.payload)
		}
	})

	absent := map[string]string{
		"empty":         "",
		"garbage":       "garbage",
		"two segments":  "abc.def",
		"four segments": "a.b.c.d",
		"bad base64":    "a.!!!.c",
		"not json":      "a." + base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".c",
		"json null":     makeToken("null"),
		"json array":    makeToken(`[1,2]`),
		"json string":   makeToken(`"admin"`),
	}
	for name, token := range absent {
		t.Run(name, func(t *testing.T) {
			claims, ok := Decode(token)
			assert.False(t, ok)
			assert.Nil(t, claims)
		})
	}
}
