package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Resource is a collection exposed by the backend under /<name>/get/all.
type Resource string

const (
	ResourceRoutes Resource = "route"
	ResourceOrders Resource = "order"
	ResourceUsers  Resource = "user"
)

func (r Resource) Path() string {
	return "/" + string(r) + "/get/all"
}

// Label is used in "<Label> not found" messages.
func (r Resource) Label() string {
	switch r {
	case ResourceRoutes:
		return "Route"
	case ResourceOrders:
		return "Order"
	case ResourceUsers:
		return "User"
	default:
		return string(r)
	}
}

type UserType int

const (
	// UserTypeDriver помечает водителей в списке пользователей backend
	UserTypeDriver UserType = 5
)

// Record is one backend object. Only id and type are interpreted; the rest
// is relayed untouched.
type Record map[string]json.RawMessage

// ID renders the id field the way it appears in URLs: strings unquoted,
// numbers as written.
func (r Record) ID() string {
	raw, ok := r["id"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// HasType reports whether the numeric type field equals t. String values
// never match.
func (r Record) HasType(t UserType) bool {
	raw, ok := r["type"]
	if !ok || strings.HasPrefix(strings.TrimSpace(string(raw)), `"`) {
		return false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	return err == nil && f == float64(t)
}

func (r Record) IsDriver() bool {
	return r.HasType(UserTypeDriver)
}
