package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"retreehawaii/mailexport/pkg/record"
)

// outputFileMode is the permission of written export files.
const outputFileMode = 0o644

// MarshalRecords encodes records as a JSON array indented by two spaces.
// Non-ASCII and HTML characters are written literally and the output has
// no trailing newline. An empty or nil slice encodes as [].
func MarshalRecords(records []record.Record) ([]byte, error) {
	if records == nil {
		records = []record.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteFile writes records to path. The data goes to a temporary file in
// the same directory which is then renamed over path, so readers never see
// a partial file and a failed write leaves an existing file untouched.
// Missing parent directories are created.
func WriteFile(path string, records []record.Record) error {
	data, err := MarshalRecords(records)
	if err != nil {
		return NewSerializationError(path, len(records), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewSerializationError(path, len(records), err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return NewSerializationError(path, len(records), err)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		tmp.Close()
		os.Remove(tmpName)
		return NewSerializationError(path, len(records), cause)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(outputFileMode); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return NewSerializationError(path, len(records), err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return NewSerializationError(path, len(records), err)
	}

	return nil
}
