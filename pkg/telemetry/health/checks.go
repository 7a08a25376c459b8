package health

import (
	"context"
	"fmt"
	"os"

	"retreehawaii/mailexport/pkg/source"
)

// DatabaseCheck opens a connection through opener and verifies that each
// table can be queried. No rows are read.
func DatabaseCheck(opener source.Opener, tables ...string) CheckFunc {
	return func(ctx context.Context) error {
		db, err := opener.Open(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		for _, table := range tables {
			rows, err := db.QueryContext(ctx, "SELECT * FROM "+table+" WHERE 1 = 0")
			if err != nil {
				return fmt.Errorf("table %s: %w", table, err)
			}
			rows.Close()
		}
		return nil
	}
}

// WritableDirCheck verifies that dir exists (or can be created) and that a
// file can be written in it.
func WritableDirCheck(dir string) CheckFunc {
	return func(ctx context.Context) error {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		f, err := os.CreateTemp(dir, ".mailexport-check-*")
		if err != nil {
			return fmt.Errorf("directory %s is not writable: %w", dir, err)
		}
		name := f.Name()
		f.Close()
		return os.Remove(name)
	}
}
