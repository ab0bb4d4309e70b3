// Package token encodes stream identities into the compact string shared through history and storage.
//
// One identity encodes as
//
//	<code>,<id>[,<base64(name)>]
//
// where code is the service's one-character code and name is the optional display name, standard
// base64 over its UTF-8 bytes. Several identities are joined with ";" in order.
//
// Only this form is supported. The older "code=id" entries joined by "+" are rejected.
package token

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/k7t3/horzcv/internal/models"
	"github.com/k7t3/horzcv/internal/shared"
)

const (
	FieldDelim = ","
	EntryDelim = ";"
)

// EncodeOne encodes a single identity. The display name is included only when non-empty.
func EncodeOne(n models.NamedIdentity) string {
	var b strings.Builder
	b.WriteString(n.Service().Code())
	b.WriteString(FieldDelim)
	b.WriteString(n.ID())
	if n.DisplayName != "" {
		b.WriteString(FieldDelim)
		b.WriteString(base64.StdEncoding.EncodeToString([]byte(n.DisplayName)))
	}
	return b.String()
}

// Key encodes an identity without a display name. Used to key per-stream data.
func Key(i models.Identity) string {
	return EncodeOne(models.Named(i, ""))
}

// DecodeOne decodes a single identity token.
func DecodeOne(s string) (models.NamedIdentity, error) {
	parts := strings.Split(s, FieldDelim)
	if len(parts) < 2 {
		return models.NamedIdentity{}, fmt.Errorf("%w: %q: expected at least 2 fields", shared.ErrInvalidToken, s)
	}

	service, err := models.ServiceByCode(parts[0])
	if err != nil {
		return models.NamedIdentity{}, err
	}

	identity, err := models.NewIdentity(service, parts[1])
	if err != nil {
		return models.NamedIdentity{}, err
	}

	var name string
	if len(parts) > 2 && parts[2] != "" {
		raw, err := base64.StdEncoding.DecodeString(parts[2])
		if err != nil {
			return models.NamedIdentity{}, fmt.Errorf("%w: %q: bad display name: %v", shared.ErrInvalidToken, s, err)
		}
		name = string(raw)
	}

	return models.Named(identity, name), nil
}

// EncodeMany joins the encoded identities in order.
func EncodeMany(list []models.NamedIdentity) string {
	parts := make([]string, len(list))
	for i, n := range list {
		parts[i] = EncodeOne(n)
	}
	return strings.Join(parts, EntryDelim)
}

// DecodeMany decodes a joined token, silently dropping entries that fail to decode.
func DecodeMany(s string) []models.NamedIdentity {
	out, _ := DecodeManyReport(s)
	return out
}

// DecodeManyReport is [DecodeMany] that also returns why each dropped entry failed.
func DecodeManyReport(s string) ([]models.NamedIdentity, []error) {
	var (
		out  []models.NamedIdentity
		errs []error
	)
	for _, part := range strings.Split(s, EntryDelim) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		n, err := DecodeOne(part)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, n)
	}
	return out, errs
}

// Identities strips the display names from list.
func Identities(list []models.NamedIdentity) []models.Identity {
	out := make([]models.Identity, len(list))
	for i, n := range list {
		out[i] = n.Identity
	}
	return out
}
