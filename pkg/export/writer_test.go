package export

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"retreehawaii/mailexport/pkg/record"
)

func TestMarshalRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []record.Record
		want    string
	}{
		{
			name:    "nil",
			records: nil,
			want:    "[]",
		},
		{
			name:    "empty",
			records: []record.Record{},
			want:    "[]",
		},
		{
			name: "literal text",
			records: []record.Record{
				record.New(
					record.Field{Name: "subject", Value: "Mahalo <b>nui</b> & aloha"},
					record.Field{Name: "lang", Value: "ʻōlelo Hawaiʻi"},
				),
			},
			want: "[\n  {\n    \"subject\": \"Mahalo <b>nui</b> & aloha\",\n    \"lang\": \"ʻōlelo Hawaiʻi\"\n  }\n]",
		},
		{
			name:    "empty record",
			records: []record.Record{record.New()},
			want:    "[\n  {}\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalRecords(tt.records)
			if err != nil {
				t.Fatalf("MarshalRecords() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("MarshalRecords() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	path := filepath.Join(dir, "retreehawaii_templates.json")

	records := []record.Record{record.New(record.Field{Name: "id", Value: int64(1)})}
	if err := WriteFile(path, records); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "[\n  {\n    \"id\": 1\n  }\n]" {
		t.Errorf("file content = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != outputFileMode {
		t.Errorf("mode = %v, want %v", info.Mode().Perm(), os.FileMode(outputFileMode))
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestWriteFile_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retreehawaii_maillog.json")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFile(path, nil); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "[]" {
		t.Errorf("file content = %q, want []", data)
	}
}

func TestWriteFile_EncodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	records := []record.Record{record.New(record.Field{Name: "ch", Value: make(chan int)})}

	err := WriteFile(path, records)

	var serr *SerializationError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *SerializationError, got %v", err)
	}
	if serr.Path != path || serr.RecordCount != 1 {
		t.Errorf("SerializationError = %+v", serr)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no file should be created when encoding fails")
	}
}
