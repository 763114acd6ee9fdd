package history

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// timestamp maps sqlite's fractional unix seconds onto time.Time.
type timestamp time.Time

// Scan implements the sql.Scanner interface.
func (t *timestamp) Scan(src any) error {
	if src == nil {
		*t = timestamp{}
		return nil
	}

	f, ok := src.(float64)
	if !ok {
		return fmt.Errorf("can't scan into history.timestamp: %T", src)
	}

	*t = timestamp(time.UnixMilli(int64(f * 1000)))
	return nil
}

// Value implements the driver.Valuer interface.
func (t timestamp) Value() (driver.Value, error) {
	return float64(time.Time(t).UnixNano()) / float64(time.Second), nil
}
