package repository

import (
	"database/sql"
)

// SQLExecutor is the query surface shared by *sql.DB and *sql.Tx, so the
// same repository code runs inside and outside a transaction.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// DB is a database that can begin transactions.
type DB interface {
	SQLExecutor
	Begin() (*sql.Tx, error)
}

var _ DB = (*sql.DB)(nil)

// TxWrapper adapts sql.Tx to SQLExecutor.
type TxWrapper struct {
	*sql.Tx
}

var _ SQLExecutor = (*TxWrapper)(nil)

func (t *TxWrapper) Exec(query string, args ...interface{}) (sql.Result, error) {
	return t.Tx.Exec(query, args...)
}

func (t *TxWrapper) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return t.Tx.Query(query, args...)
}

func (t *TxWrapper) QueryRow(query string, args ...interface{}) *sql.Row {
	return t.Tx.QueryRow(query, args...)
}
