package domain

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// BinaryID is a 16-byte identifier persisted as raw bytes. Its Value is
// always the exact fixed-width byte sequence, so an equality predicate
// compares bytes identically on every backend.
type BinaryID [16]byte

func NewBinaryID(id uuid.UUID) BinaryID {
	return BinaryID(id)
}

func (b BinaryID) UUID() uuid.UUID {
	return uuid.UUID(b)
}

func (b BinaryID) String() string {
	return uuid.UUID(b).String()
}

func (b BinaryID) Value() (driver.Value, error) {
	out := make([]byte, len(b))
	copy(out, b[:])
	return out, nil
}

func (b *BinaryID) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*b = BinaryID{}
		return nil
	default:
		return fmt.Errorf("binary id: unsupported type %T", src)
	}
	if len(raw) != len(b) {
		return fmt.Errorf("binary id: expected %d bytes, got %d", len(b), len(raw))
	}
	copy(b[:], raw)
	return nil
}

func (BinaryID) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "mysql" {
		return "BINARY(16)"
	}
	return "BLOB"
}
