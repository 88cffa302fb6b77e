package client

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrAdminRestricted reports that anonymous sign-in is disabled for the
// project. Reads may still succeed when the security rules allow them.
var ErrAdminRestricted = errors.New("anonymous sign-in restricted to admins")

// SignUpRequest for POST /v1/accounts:signUp.
type SignUpRequest struct {
	ReturnSecureToken bool `json:"returnSecureToken"`
}

// SignUpResponse from POST /v1/accounts:signUp.
type SignUpResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

// Document is a Firestore document with its typed values decoded into plain
// Go values: string, int64, float64, bool, nil, []any and map[string]any.
type Document struct {
	ID     string
	Name   string
	Fields map[string]any
}

// APIError is a non-2xx answer from either API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("API %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("API %d: %s", e.StatusCode, e.Message)
}

// Is matches ErrAdminRestricted for the Identity Toolkit's
// ADMIN_ONLY_OPERATION answer.
func (e *APIError) Is(target error) bool {
	return target == ErrAdminRestricted && strings.HasPrefix(e.Message, "ADMIN_ONLY_OPERATION")
}

func decodeDocument(raw gjson.Result) Document {
	name := raw.Get("name").String()
	fields := map[string]any{}
	raw.Get("fields").ForEach(func(key, value gjson.Result) bool {
		fields[key.String()] = decodeValue(value)
		return true
	})
	return Document{ID: path.Base(name), Name: name, Fields: fields}
}

// decodeValue unwraps one Firestore Value object.
func decodeValue(v gjson.Result) any {
	switch {
	case v.Get("stringValue").Exists():
		return v.Get("stringValue").String()
	case v.Get("integerValue").Exists():
		s := v.Get("integerValue").String()
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		return s
	case v.Get("doubleValue").Exists():
		return v.Get("doubleValue").Float()
	case v.Get("booleanValue").Exists():
		return v.Get("booleanValue").Bool()
	case v.Get("nullValue").Exists():
		return nil
	case v.Get("timestampValue").Exists():
		return v.Get("timestampValue").String()
	case v.Get("referenceValue").Exists():
		return v.Get("referenceValue").String()
	case v.Get("bytesValue").Exists():
		return v.Get("bytesValue").String()
	case v.Get("geoPointValue").Exists():
		p := v.Get("geoPointValue")
		return map[string]any{"latitude": p.Get("latitude").Float(), "longitude": p.Get("longitude").Float()}
	case v.Get("arrayValue").Exists():
		values := v.Get("arrayValue.values").Array()
		out := make([]any, 0, len(values))
		for _, item := range values {
			out = append(out, decodeValue(item))
		}
		return out
	case v.Get("mapValue").Exists():
		out := map[string]any{}
		v.Get("mapValue.fields").ForEach(func(key, value gjson.Result) bool {
			out[key.String()] = decodeValue(value)
			return true
		})
		return out
	}
	return nil
}
