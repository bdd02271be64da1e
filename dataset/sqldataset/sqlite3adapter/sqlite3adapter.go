/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database.
*/
package sqlite3adapter

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/grovekit/grove/dataset/sqldataset"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and returns an Adapter
that works on the file's database or an error if it fails to open as
an sqlite3 database.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func placeholder(int) string {
	return "?"
}

func (a *adapter) ColumnName(name string) (string, error) {
	return sqldataset.ColumnName(name)
}

func (a *adapter) CreateRecordTable(ctx context.Context, columns []string) error {
	stmt := sqldataset.CreateTableStatement(columns, "INTEGER PRIMARY KEY AUTOINCREMENT")
	_, err := a.db.ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("ensuring records table exists: %v", err)
	}
	return nil
}

func (a *adapter) AddRecords(ctx context.Context, columns []string, rows [][]interface{}) (int, error) {
	return sqldataset.InsertRecords(ctx, a.db, columns, rows, placeholder)
}

func (a *adapter) IterateOnRecords(ctx context.Context, columns []string, lambda func(int, []sql.NullString) (bool, error)) error {
	return sqldataset.QueryRecords(ctx, a.db, columns, lambda)
}

func (a *adapter) CountRecords(ctx context.Context) (int, error) {
	return sqldataset.CountRecords(ctx, a.db)
}

func (a *adapter) Close() error {
	return a.db.Close()
}
