package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Key names shared with the web app's local storage.
const (
	KeyUser         = "user"
	KeySelectedDate = "betSelectedDate"
)

// balanceFields lists the keys a balance may be stored under, in lookup order.
var balanceFields = []string{"balance", "wallet", "points", "walletAmount", "wallet_amount", "amount"}

// User is the part of the cached user object the bettor client reads.
type User struct {
	ID      string  `json:"id"`
	Balance float64 `json:"balance"`
}

// LoadUser reads the cached user. A missing or corrupt entry yields the zero User
// and ok=false; it never returns an error.
func LoadUser(ctx context.Context, store Store) (User, bool) {
	raw, err := loadUserObject(ctx, store)
	if err != nil || raw == nil {
		return User{}, false
	}
	return User{ID: userID(raw), Balance: ExtractBalance(raw)}, true
}

// ErrMissingUserID is returned by SaveUser for an object with neither id nor _id.
var ErrMissingUserID = errors.New("session: user object has no id")

// SaveUser stores a full user object, typically after login. An object without
// an id is refused and the cached user is left as it was.
func SaveUser(ctx context.Context, store Store, obj map[string]interface{}) error {
	if userID(obj) == "" {
		return ErrMissingUserID
	}
	return SetJSON(ctx, store, KeyUser, obj, 0)
}

// UpdateBalance writes a new balance into the cached user, keeping every other
// field. Any alias key already present is updated too so older readers agree.
func UpdateBalance(ctx context.Context, store Store, balance float64) error {
	raw, err := loadUserObject(ctx, store)
	if err != nil || raw == nil {
		raw = map[string]interface{}{}
	}
	raw["balance"] = balance
	for _, f := range balanceFields[1:] {
		if _, ok := raw[f]; ok {
			raw[f] = balance
		}
	}
	return SetJSON(ctx, store, KeyUser, raw, 0)
}

// ExtractBalance finds the first balance-like field in a decoded JSON object.
// Numbers and numeric strings are accepted; anything else counts as 0.
func ExtractBalance(obj map[string]interface{}) float64 {
	for _, f := range balanceFields {
		v, ok := obj[f]
		if !ok || v == nil {
			continue
		}
		if n, ok := toFloat(v); ok {
			return n
		}
	}
	return 0
}

// BalanceFromJSON extracts a balance from an arbitrary JSON value: a bare number,
// a numeric string or an object with one of the balance fields.
func BalanceFromJSON(data json.RawMessage) (float64, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("decode balance: %w", err)
	}
	if obj, ok := v.(map[string]interface{}); ok {
		return ExtractBalance(obj), nil
	}
	if n, ok := toFloat(v); ok {
		return n, nil
	}
	return 0, fmt.Errorf("unexpected balance shape: %s", string(data))
}

func loadUserObject(ctx context.Context, store Store) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := GetJSON(ctx, store, KeyUser, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func userID(obj map[string]interface{}) string {
	for _, f := range []string{"id", "_id"} {
		switch v := obj[f].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
