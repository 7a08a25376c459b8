// Package source opens connections to the database the export reads from.
//
// Four database/sql drivers are registered:
//
//   - mysql    github.com/go-sql-driver/mysql (the retreehawaii server)
//   - postgres github.com/lib/pq
//   - sqlite3  github.com/mattn/go-sqlite3 (cgo)
//   - sqlite   modernc.org/sqlite (pure Go)
//
// A Connector turns a config.SourceConfig into a DSN and opens a handle
// restricted to a single connection. Handles are scoped to one export and
// closed by the caller, so nothing is shared between exports.
//
//	conn := source.NewConnector(cfg.Source, logger)
//	db, err := conn.Open(ctx)
//	if err != nil {
//	    return err // *source.ConnectionError
//	}
//	defer db.Close()
package source
