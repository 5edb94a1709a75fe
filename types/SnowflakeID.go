package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// SnowflakeID is stored as int64 but serialized as a string so that
// javascript clients do not lose precision.
type SnowflakeID int64

func (s SnowflakeID) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SnowflakeID) Scan(value interface{}) error {
	switch v := value.(type) {
	case int64:
		*s = SnowflakeID(v)
		return nil
	case []byte:
		i, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return err
		}
		*s = SnowflakeID(i)
		return nil
	default:
		return fmt.Errorf("cannot convert %v to SnowflakeID", value)
	}
}

func (s SnowflakeID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(s), 10))
}

func (s *SnowflakeID) UnmarshalJSON(data []byte) error {
	var strID string
	if err := json.Unmarshal(data, &strID); err != nil {
		// older clients send the raw number
		var n int64
		if err2 := json.Unmarshal(data, &n); err2 == nil {
			*s = SnowflakeID(n)
			return nil
		}
		return fmt.Errorf("failed to unmarshal snowflake ID: %w", err)
	}
	if strID == "" {
		*s = 0
		return nil
	}
	val, err := strconv.ParseInt(strID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake ID format: %w", err)
	}
	*s = SnowflakeID(val)
	return nil
}
