package record

import (
	"database/sql"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Rows is the subset of *sql.Rows used by ScanRows.
type Rows interface {
	ColumnTypes() ([]*sql.ColumnType, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// ScanRows reads rows into records, normalizing driver values to JSON
// friendly types. At most max rows are read when max > 0. The returned
// slice is never nil.
func ScanRows(rows Rows, max int) ([]Record, error) {
	cols, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(cols))
	types := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
		types[i] = strings.ToUpper(c.DatabaseTypeName())
	}

	records := []Record{}
	raw := make([]any, len(cols))
	dest := make([]any, len(cols))
	for i := range raw {
		dest[i] = &raw[i]
	}

	for rows.Next() {
		if max > 0 && len(records) >= max {
			break
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		rec := Record{fields: make([]Field, len(cols))}
		for i := range cols {
			rec.fields[i] = Field{Name: names[i], Value: Normalize(types[i], raw[i])}
			raw[i] = nil
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Normalize converts a scanned driver value to nil, string, int64, uint64,
// float64, bool or json.RawMessage. dbType is the upper-case database
// type name of the column and may be empty when the driver does not
// report one.
func Normalize(dbType string, v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return fromText(dbType, x)
	case string:
		return fromText(dbType, []byte(x))
	case time.Time:
		if x.IsZero() {
			return nil
		}
		if dbType == "DATE" {
			return FormatDate(x)
		}
		return FormatISO(x)
	case int64, uint64, float64, bool:
		return x
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case int16:
		return int64(x)
	case int8:
		return int64(x)
	case uint32:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint8:
		return uint64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// fromText converts textual or binary column data using the column type.
func fromText(dbType string, b []byte) any {
	s := string(b)

	switch {
	case isIntegerType(dbType):
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u
		}
	case isFloatType(dbType):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case dbType == "BOOL" || dbType == "BOOLEAN":
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	case dbType == "BIT":
		return bitValue(b)
	case dbType == "JSON" || dbType == "JSONB":
		if json.Valid(b) {
			return json.RawMessage(append([]byte(nil), b...))
		}
	case dbType == "DATE" || isDateTimeType(dbType):
		return temporalValue(s)
	}

	if utf8.Valid(b) {
		return s
	}
	return base64.StdEncoding.EncodeToString(b)
}

func isIntegerType(t string) bool {
	t = strings.TrimPrefix(t, "UNSIGNED ")
	switch t {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT",
		"INT2", "INT4", "INT8", "YEAR", "SERIAL", "BIGSERIAL":
		return true
	}
	return false
}

func isFloatType(t string) bool {
	t = strings.TrimPrefix(t, "UNSIGNED ")
	switch t {
	case "FLOAT", "DOUBLE", "REAL", "FLOAT4", "FLOAT8", "DOUBLE PRECISION":
		return true
	}
	return false
}

func isDateTimeType(t string) bool {
	switch t {
	case "DATETIME", "TIMESTAMP", "TIMESTAMPTZ":
		return true
	}
	return false
}

// bitValue decodes a big-endian BIT(n) column into an integer.
func bitValue(b []byte) uint64 {
	if len(b) > 8 {
		b = b[len(b)-8:]
	}
	var buf [8]byte
	copy(buf[8-len(b):], b)
	return binary.BigEndian.Uint64(buf[:])
}
