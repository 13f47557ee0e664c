package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownRole      = errors.New("unknown role")
	ErrUnknownOptionKey = errors.New("unknown option key")
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleClient:
		return r, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	role, err := ParseRole(s)
	if err != nil {
		return err
	}

	*r = role

	return nil
}

// OptionKey names one of the four answers of a card. Keys are lowercase and
// compared case-sensitively.
type OptionKey string

const (
	OptionA OptionKey = "a"
	OptionB OptionKey = "b"
	OptionC OptionKey = "c"
	OptionD OptionKey = "d"
)

func ParseOptionKey(s string) (OptionKey, error) {
	switch k := OptionKey(s); k {
	case OptionA, OptionB, OptionC, OptionD:
		return k, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownOptionKey, s)
}

func (k OptionKey) Valid() bool {
	_, err := ParseOptionKey(string(k))
	return err == nil
}
