package health

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retreehawaii/mailexport/pkg/source"
)

// TestNew tests the creation of a new checker.
func TestNew(t *testing.T) {
	tests := []struct {
		name            string
		timeout         time.Duration
		expectedTimeout time.Duration
	}{
		{
			name:            "default timeout",
			timeout:         0,
			expectedTimeout: 10 * time.Second,
		},
		{
			name:            "custom timeout",
			timeout:         2 * time.Second,
			expectedTimeout: 2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(tt.timeout)
			if checker.checkTimeout != tt.expectedTimeout {
				t.Errorf("expected timeout %v, got %v", tt.expectedTimeout, checker.checkTimeout)
			}
			if len(checker.ListChecks()) != 0 {
				t.Errorf("expected no checks, got %v", checker.ListChecks())
			}
		})
	}
}

func TestRegisterCheck_KeepsOrder(t *testing.T) {
	checker := New(time.Second)

	var order []string
	record := func(name string) CheckFunc {
		return func(ctx context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	checker.RegisterCheck("config", record("config"))
	checker.RegisterCheck("database", record("database"))
	checker.RegisterCheck("output_dir", record("output_dir"))
	checker.RegisterCheck("database", record("database-v2"))

	assert.Equal(t, []string{"config", "database", "output_dir"}, checker.ListChecks())

	report := checker.Run(context.Background())
	assert.True(t, report.OK())
	assert.Equal(t, []string{"config", "database-v2", "output_dir"}, order)
}

func TestRun(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
		wantResult map[string]string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: StatusOK,
		},
		{
			name: "all ok",
			checks: map[string]CheckFunc{
				"a": func(ctx context.Context) error { return nil },
				"b": func(ctx context.Context) error { return nil },
			},
			wantStatus: StatusOK,
			wantResult: map[string]string{"a": StatusOK, "b": StatusOK},
		},
		{
			name: "one failed",
			checks: map[string]CheckFunc{
				"a": func(ctx context.Context) error { return errors.New("boom") },
				"b": func(ctx context.Context) error { return nil },
			},
			wantStatus: StatusFailed,
			wantResult: map[string]string{"a": StatusFailed, "b": StatusOK},
		},
		{
			name: "skipped does not fail",
			checks: map[string]CheckFunc{
				"a": nil,
			},
			wantStatus: StatusOK,
			wantResult: map[string]string{"a": StatusSkipped},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := New(time.Second)
			for name, check := range tt.checks {
				checker.RegisterCheck(name, check)
			}

			report := checker.Run(context.Background())
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.False(t, report.Timestamp.IsZero())
			require.Len(t, report.Checks, len(tt.checks))
			for _, r := range report.Checks {
				assert.Equal(t, tt.wantResult[r.Name], r.Status, r.Name)
			}
		})
	}
}

func TestRun_FailureMessage(t *testing.T) {
	checker := New(time.Second)
	checker.RegisterCheck("database", func(ctx context.Context) error {
		return errors.New("connection refused")
	})

	report := checker.Run(context.Background())
	require.Len(t, report.Checks, 1)
	assert.Equal(t, "connection refused", report.Checks[0].Message)
}

func TestRun_Timeout(t *testing.T) {
	checker := New(50 * time.Millisecond)
	checker.RegisterCheck("slow", func(ctx context.Context) error {
		time.Sleep(time.Second)
		return nil
	})

	start := time.Now()
	report := checker.Run(context.Background())

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.False(t, report.OK())
	assert.Equal(t, ErrCheckTimeout.Error(), report.Checks[0].Message)
}

func mockOpener(t *testing.T, setup func(mock sqlmock.Sqlmock)) source.Opener {
	t.Helper()
	return source.OpenerFunc(func(ctx context.Context) (*sql.DB, error) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		setup(mock)
		t.Cleanup(func() { assert.NoError(t, mock.ExpectationsWereMet()) })
		return db, nil
	})
}

func TestDatabaseCheck(t *testing.T) {
	t.Run("tables present", func(t *testing.T) {
		opener := mockOpener(t, func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery("SELECT * FROM templates WHERE 1 = 0").WillReturnRows(sqlmock.NewRows([]string{"id"}))
			mock.ExpectQuery("SELECT * FROM maillog WHERE 1 = 0").WillReturnRows(sqlmock.NewRows([]string{"id"}))
			mock.ExpectClose()
		})

		assert.NoError(t, DatabaseCheck(opener, "templates", "maillog")(context.Background()))
	})

	t.Run("missing table", func(t *testing.T) {
		opener := mockOpener(t, func(mock sqlmock.Sqlmock) {
			mock.ExpectQuery("SELECT * FROM templates WHERE 1 = 0").WillReturnError(errors.New("no such table: templates"))
			mock.ExpectClose()
		})

		err := DatabaseCheck(opener, "templates", "maillog")(context.Background())
		assert.EqualError(t, err, "table templates: no such table: templates")
	})

	t.Run("connection error", func(t *testing.T) {
		connErr := source.NewConnectionError("mysql", "db:3306", errors.New("refused"))
		opener := source.OpenerFunc(func(ctx context.Context) (*sql.DB, error) { return nil, connErr })

		err := DatabaseCheck(opener, "templates")(context.Background())
		assert.ErrorIs(t, err, connErr)
	})
}

func TestWritableDirCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	require.NoError(t, WritableDirCheck(dir)(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file should be removed")

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	assert.Error(t, WritableDirCheck(filepath.Join(file, "sub"))(context.Background()))
}
