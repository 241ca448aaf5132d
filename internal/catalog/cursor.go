package catalog

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"ecofinds/internal/models"

	"github.com/shopspring/decimal"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor marks the last record of a page. The store resumes strictly after
// it in the requested order, using ID to break ties.
type Cursor struct {
	ID        string          `json:"i"`
	CreatedAt time.Time       `json:"c"`
	Price     decimal.Decimal `json:"p"`
}

func CursorFor(p models.Product) Cursor {
	return Cursor{ID: p.ID, CreatedAt: p.CreatedAt, Price: p.Price}
}

// Encode returns an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token from Encode. An empty token yields nil.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil || c.ID == "" {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}
