package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const (
	// RecordTable is the name of the table holding the records
	RecordTable = "records"

	// MaxRecordInsertionsPerStatement is the maximum number
	// of records that are added with a single insert command
	// with InsertRecords. Adding more will result in making
	// more insertion commands
	MaxRecordInsertionsPerStatement = 10
)

/*
Adapter is an interface providing the methods
needed to store records on a database backend.
*/
type Adapter interface {
	ColumnName(string) (string, error)
	CreateRecordTable(ctx context.Context, columns []string) error
	AddRecords(ctx context.Context, columns []string, rows [][]interface{}) (int, error)
	IterateOnRecords(ctx context.Context, columns []string, lambda func(int, []sql.NullString) (bool, error)) error
	CountRecords(ctx context.Context) (int, error)
	Close() error
}

/*
Placeholder takes the 1-based position of a value in a statement
and returns the placeholder for it in the statement.
*/
type Placeholder func(int) string

/*
ColumnName takes a feature or label name and returns it as a column
name, or an error if it cannot be used as one.
*/
func ColumnName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty names cannot be used as column names")
	}
	if name == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, name)
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, name)
	}
	return name, nil
}

/*
CreateTableStatement takes the columns of the record table and the
definition of its id column and returns the statement creating it.
*/
func CreateTableStatement(columns []string, idDefinition string) string {
	var buf bytes.Buffer
	buf.WriteString("CREATE TABLE IF NOT EXISTS ")
	buf.WriteString(RecordTable)
	buf.WriteString("(")
	for _, c := range columns {
		buf.WriteString(fmt.Sprintf(`"%s" TEXT NULL, `, c))
	}
	buf.WriteString(`"id" `)
	buf.WriteString(idDefinition)
	buf.WriteString(")")
	return buf.String()
}

/*
InsertStatement takes the columns of the record table, a number of
rows and a Placeholder and returns the statement inserting that
number of rows.
*/
func InsertStatement(columns []string, rows int, placeholder Placeholder) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`INSERT INTO %s ("`, RecordTable))
	buf.WriteString(strings.Join(columns, `", "`))
	buf.WriteString(`") VALUES `)
	for i := 0; i < rows; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j := range columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(placeholder(1 + j + i*len(columns)))
		}
		buf.WriteString(")")
	}
	return buf.String()
}

/*
SelectStatement takes the columns of the record table and returns the
query listing the records in insertion order.
*/
func SelectStatement(columns []string) string {
	return fmt.Sprintf(`SELECT "%s" FROM %s ORDER BY "id"`, strings.Join(columns, `", "`), RecordTable)
}

/*
InsertRecords takes a context, a database, the columns of the record
table, the rows to insert and a Placeholder and inserts the rows in
chunks of MaxRecordInsertionsPerStatement. It returns the number of
rows inserted and an error if not all of them could be.
*/
func InsertRecords(ctx context.Context, db *sql.DB, columns []string, rows [][]interface{}, placeholder Placeholder) (int, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("no columns to store")
	}
	full := len(rows) / MaxRecordInsertionsPerStatement * MaxRecordInsertionsPerStatement
	n, err := insertChunks(ctx, db, columns, rows[:full], MaxRecordInsertionsPerStatement, placeholder)
	if err != nil {
		return n, err
	}
	m, err := insertChunks(ctx, db, columns, rows[full:], len(rows)-full, placeholder)
	return n + m, err
}

func insertChunks(ctx context.Context, db *sql.DB, columns []string, rows [][]interface{}, size int, placeholder Placeholder) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	stmt, err := db.PrepareContext(ctx, InsertStatement(columns, size, placeholder))
	if err != nil {
		return 0, fmt.Errorf("preparing insert command for %d records: %v", size, err)
	}
	defer stmt.Close()
	for start := 0; start < len(rows); start += size {
		values := make([]interface{}, 0, size*len(columns))
		for _, row := range rows[start : start+size] {
			values = append(values, row...)
		}
		_, err = stmt.ExecContext(ctx, values...)
		if err != nil {
			return start, fmt.Errorf("inserting the %dth %d records: %v", start/size+1, size, err)
		}
	}
	return len(rows), nil
}

/*
QueryRecords takes a context, a database, the columns of the record table
and a lambda function and calls the lambda with the index and the values of
every record in insertion order until it returns false or an error.
*/
func QueryRecords(ctx context.Context, db *sql.DB, columns []string, lambda func(int, []sql.NullString) (bool, error)) error {
	rows, err := db.QueryContext(ctx, SelectStatement(columns))
	if err != nil {
		return err
	}
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		values := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		err = rows.Scan(dest...)
		if err != nil {
			return err
		}
		ok, err := lambda(j, values)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	err = rows.Err()
	if err != nil {
		return err
	}
	return rows.Close()
}

/*
CountRecords takes a context and a database and returns the number of
records in the record table.
*/
func CountRecords(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, RecordTable)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
