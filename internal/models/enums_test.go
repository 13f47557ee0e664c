package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionKey(t *testing.T) {
	tests := []struct {
		in      string
		want    OptionKey
		wantErr bool
	}{
		{in: "a", want: OptionA},
		{in: "b", want: OptionB},
		{in: "c", want: OptionC},
		{in: "d", want: OptionD},
		{in: "B", wantErr: true},
		{in: "e", wantErr: true},
		{in: "", wantErr: true},
		{in: " a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOptionKey(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownOptionKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("client")
	require.NoError(t, err)
	assert.Equal(t, RoleClient, r)

	_, err = ParseRole("Admin")
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestRole_UnmarshalJSON_RejectsUnknown(t *testing.T) {
	var v struct {
		Role Role `json:"role"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"role":"client"}`), &v))
	assert.Equal(t, RoleClient, v.Role)

	require.Error(t, json.Unmarshal([]byte(`{"role":"root"}`), &v))
}

func TestUser_PublicOmitsPasswordHash(t *testing.T) {
	u := User{Name: "Ann", Email: "ann@example.com", PasswordHash: "$2a$10$secret", Role: RoleClient}

	data, err := json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")

	data, err = json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}
