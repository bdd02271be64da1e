/*
Package pgadapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/grovekit/grove/dataset/sqldataset"

	// Import of PostgreSQL driver
	_ "github.com/lib/pq"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func placeholder(i int) string {
	return fmt.Sprintf("$%d", i)
}

func (a *adapter) ColumnName(name string) (string, error) {
	return sqldataset.ColumnName(name)
}

func (a *adapter) CreateRecordTable(ctx context.Context, columns []string) error {
	createStmt, err := a.db.PrepareContext(ctx, sqldataset.CreateTableStatement(columns, "SERIAL PRIMARY KEY"))
	if err != nil {
		return fmt.Errorf("preparing records creation statement: %v", err)
	}
	defer createStmt.Close()
	_, err = createStmt.ExecContext(ctx)
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
