package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	_, err = db.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	if err != nil {
		db.Close()
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n
}

func TestOpen_EnablesForeignKeys(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	var on int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&on); err != nil {
		t.Fatalf("pragma query failed: %v", err)
	}
	if on != 1 {
		t.Errorf("foreign_keys = %d, want 1", on)
	}
}

func TestWithTx(t *testing.T) {
	abort := errors.New("abort")

	tests := []struct {
		name    string
		values  []string
		fail    error
		want    int
		wantErr error
	}{
		{name: "single insert commits", values: []string{"test"}, want: 1},
		{name: "multiple inserts commit", values: []string{"first", "second", "third"}, want: 3},
		{name: "error rolls back", values: []string{"test"}, fail: abort, wantErr: abort},
		{name: "partial work rolls back", values: []string{"first", "second"}, fail: abort, wantErr: abort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
				for _, v := range tt.values {
					if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, v); err != nil {
						return err
					}
				}
				return tt.fail
			})

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("WithTx error = %v, want %v", err, tt.wantErr)
			}
			if got := count(t, db); got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWithTx_CanceledContext(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, db, func(*sql.Tx) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if called {
		t.Error("fn must not run without a transaction")
	}
}

func TestNullStringValue(t *testing.T) {
	if got := NullStringValue(sql.NullString{String: "hello", Valid: true}); got != "hello" {
		t.Errorf("valid = %q, want hello", got)
	}
	if got := NullStringValue(sql.NullString{String: "hello"}); got != "" {
		t.Errorf("invalid = %q, want empty", got)
	}
}
