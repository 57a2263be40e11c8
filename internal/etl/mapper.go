package etl

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"bizloader/internal/domain"
)

// ── Record Mapper ──────────────────────────────────────────
// Converts a validated flat row into a nested Business record.

// Mapper builds Business records from rows.
type Mapper struct {
	// IDs supplies externalID when the row has none. This is a fallback
	// independent of Backfill, so mapping works even if backfill was skipped.
	IDs      IDGenerator
	IDColumn string // defaults to domain.ColClerkUserID
}

// Map constructs a Business from a row. A phone number that is not an
// integer yields a *CoercionError.
func (m *Mapper) Map(row Row) (*domain.Business, error) {
	phone, err := coercePhone(row[domain.ColPOCPhone])
	if err != nil {
		return nil, &CoercionError{Column: domain.ColPOCPhone, Value: row[domain.ColPOCPhone], Err: err}
	}

	idCol := m.IDColumn
	if idCol == "" {
		idCol = domain.ColClerkUserID
	}
	externalID := row.Text(idCol)
	if externalID == "" {
		gen := m.IDs
		if gen == nil {
			gen = PlaceholderIDs{}
		}
		externalID = gen.NewID()
	}

	return &domain.Business{
		ExternalID:    externalID,
		BusinessName:  row.Text(domain.ColBusinessName),
		BusinessType:  row.Text(domain.ColBusinessType),
		BusinessOwner: row.Text(domain.ColBusinessOwner),
		Website:       row.Text(domain.ColWebsite),
		Address:       row.Text(domain.ColAddress),
		PointOfContact: domain.PointOfContact{
			Name:        row.Text(domain.ColPOCName),
			PhoneNumber: phone,
			Email:       row.Text(domain.ColPOCEmail),
		},
		SocialMediaHandles: &domain.SocialHandles{
			IG:      row.Optional(domain.ColInstagram),
			Twitter: row.Optional(domain.ColTwitter),
			FB:      row.Optional(domain.ColFacebook),
		},
		Description: row.Text(domain.ColDescription),
		LogoURL:     row.Optional(domain.ColLogoURL),
		BannerURL:   row.Optional(domain.ColBannerURL),
	}, nil
}

var errNotInteger = errors.New("not an integer")

// coercePhone accepts integers, integral floats and their text forms
// ("5551234", "5551234.0").
func coercePhone(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return integralFloat(n)
	case string:
		return parseIntegral(n)
	case fmt.Stringer: // json.Number
		return parseIntegral(n.String())
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func parseIntegral(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errNotInteger
	}
	return integralFloat(f)
}

func integralFloat(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) ||
		f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, errNotInteger
	}
	return int64(f), nil
}
