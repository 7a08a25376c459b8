// Package record holds exported rows.
//
// A Record keeps the columns of a row in the order the database returned
// them and encodes to a JSON object with the same key order. ScanRows
// builds records from *sql.Rows and normalizes driver values so every
// record is JSON-encodable:
//
//   - integers become int64 (uint64 when they overflow)
//   - floats become float64, decimals stay strings
//   - JSON columns are embedded raw
//   - text is kept verbatim, invalid UTF-8 is base64 encoded
//   - dates and times become ISO-8601 text, zero dates become null
//
// NormalizeTemporal applies the ISO-8601 conversion to named fields only,
// for drivers that hand back timestamps as plain text.
package record
