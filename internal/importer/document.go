package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Document is the legacy snapshot: a user list and each user's customers
// keyed by the user's id.
type Document struct {
	Users     []UserRecord                `json:"users"`
	Customers map[string][]CustomerRecord `json:"customers"`
}

type UserRecord struct {
	ID    RecordID `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
}

type CustomerRecord struct {
	ID              RecordID        `json:"id"`
	AccountCode     string          `json:"accountCode"`
	Name            string          `json:"name"`
	Phone           string          `json:"phone"`
	Balance         decimal.Decimal `json:"balance"`
	LastInvoiceDate string          `json:"lastInvoiceDate"`
	LastPaymentDate string          `json:"lastPaymentDate"`
	Status          string          `json:"status"`
}

// RecordID accepts both JSON strings and numbers.
type RecordID string

func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %s", data)
	}
	*id = RecordID(n.String())
	return nil
}

// Decode parses a snapshot document.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode import document: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and parses the snapshot at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
