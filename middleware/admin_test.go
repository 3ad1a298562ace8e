package middleware

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// adminConn - минимальный драйвер database/sql, отдающий заранее заданный
// результат SELECT is_admin. Пустой набор строк даёт sql.ErrNoRows, как при
// отсутствии строки профиля.
type adminConn struct {
	rows [][]driver.Value
}

func (c *adminConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("не используется") }
func (c *adminConn) Close() error                        { return nil }
func (c *adminConn) Begin() (driver.Tx, error)           { return nil, errors.New("не используется") }

func (c *adminConn) QueryContext(_ context.Context, _ string, _ []driver.NamedValue) (driver.Rows, error) {
	return &adminRows{rows: c.rows}, nil
}

type adminRows struct {
	rows [][]driver.Value
	pos  int
}

func (r *adminRows) Columns() []string { return []string{"is_admin"} }
func (r *adminRows) Close() error      { return nil }
func (r *adminRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.pos])
	r.pos++
	return nil
}

type adminConnector struct{ conn *adminConn }

func (c adminConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }
func (c adminConnector) Driver() driver.Driver                        { return adminDriver{} }

type adminDriver struct{}

func (adminDriver) Open(string) (driver.Conn, error) { return nil, errors.New("не используется") }

func adminTestRouter(db *sql.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", uuid.New()) })
	r.GET("/admin/stats", RequireAdmin(db), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name string
		rows [][]driver.Value
		code int
	}{
		{"администратор", [][]driver.Value{{true}}, http.StatusOK},
		{"обычный сотрудник", [][]driver.Value{{false}}, http.StatusForbidden},
		{"профиль отсутствует", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := sql.OpenDB(adminConnector{conn: &adminConn{rows: tt.rows}})
			defer db.Close()

			r := adminTestRouter(db)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
			if w.Code != tt.code {
				t.Errorf("ожидался %d, получено %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}
