package store

import (
	"fmt"
	"time"

	"github.com/Alanfitzg/Benelux-GAA-sub010/internal/entity"
)

var clubColumns = []string{"id", "name", "location", "asset_ref", "status", "created_at", "updated_at"}

type clubRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Location  string `db:"location"`
	AssetRef  string `db:"asset_ref"`
	Status    string `db:"status"`
	CreatedAt dbTime `db:"created_at"`
	UpdatedAt dbTime `db:"updated_at"`
}

func (r clubRow) entity() entity.Entity {
	return entity.Entity{
		ID:        r.ID,
		Name:      r.Name,
		Location:  r.Location,
		AssetRef:  r.AssetRef,
		Status:    entity.Status(r.Status),
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

// dbTime scans timestamps from either backend. SQLite may hand back text
// when the stored value does not match the driver's parse layouts.
type dbTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (t *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (t *dbTime) parse(value string) error {
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("parse timestamp %q", value)
}
