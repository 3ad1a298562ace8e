package handlers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
)

// fakeConn - программируемый драйвер database/sql: обработчики и слой запросов
// выполняются целиком, а ответы и ошибки хранилища задаются тестом. Ошибки
// драйвера проходят через обычную классификацию (pgconn.PgError → сентинель),
// поэтому проверяется весь путь до HTTP-статуса.
type fakeConn struct {
	// onExec вызывается для каждого Exec; ненулевая ошибка возвращается драйвером
	onExec func(query string, args []driver.NamedValue) error
	// onQuery отдаёт колонки и строки для каждого Query
	onQuery func(query string) (cols []string, rows [][]driver.Value, err error)
}

func newFakeDB(c *fakeConn) *sql.DB {
	return sql.OpenDB(fakeConnector{conn: c})
}

type fakeConnector struct{ conn *fakeConn }

func (f fakeConnector) Connect(context.Context) (driver.Conn, error) { return f.conn, nil }
func (f fakeConnector) Driver() driver.Driver                        { return fakeDriver{} }

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return nil, errors.New("не используется") }

func (c *fakeConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("не используется") }
func (c *fakeConn) Close() error                        { return nil }
func (c *fakeConn) Begin() (driver.Tx, error)           { return c, nil }

func (c *fakeConn) BeginTx(context.Context, driver.TxOptions) (driver.Tx, error) { return c, nil }
func (c *fakeConn) Commit() error                                                { return nil }
func (c *fakeConn) Rollback() error                                              { return nil }

func (c *fakeConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if c.onExec != nil {
		if err := c.onExec(query, args); err != nil {
			return nil, err
		}
	}
	return driver.RowsAffected(1), nil
}

func (c *fakeConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	if c.onQuery == nil {
		return nil, errors.New("неожиданный запрос: " + query)
	}
	cols, rows, err := c.onQuery(query)
	if err != nil {
		return nil, err
	}
	return &fakeRows{cols: cols, rows: rows}, nil
}

type fakeRows struct {
	cols []string
	rows [][]driver.Value
	pos  int
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}
