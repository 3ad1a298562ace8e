package queries

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/egor/callcenterserver/database"
	"github.com/egor/callcenterserver/models"
)

// DashboardStats собирает сводные показатели для панели администратора.
// Календарные границы вычисляются один раз на вызов в часовом поясе сервера.
func DashboardStats(db *sql.DB) (*models.DashboardStats, error) {
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())

	var stats models.DashboardStats
	var err error

	if stats.TotalContacts, err = CountContacts(db, time.Time{}, time.Time{}); err != nil {
		return nil, err
	}
	if stats.ContactsThisMonth, err = CountContacts(db, startOfMonth, time.Time{}); err != nil {
		return nil, err
	}
	if stats.TotalCalls, err = countCalls(db, time.Time{}, false); err != nil {
		return nil, err
	}
	if stats.CallsToday, err = countCalls(db, startOfToday, true); err != nil {
		return nil, err
	}
	if stats.CallsThisMonth, err = countCalls(db, startOfMonth, true); err != nil {
		return nil, err
	}
	if stats.CallsThisYear, err = countCalls(db, startOfYear, true); err != nil {
		return nil, err
	}
	if stats.TotalTeamMembers, err = countUsers(db); err != nil {
		return nil, err
	}
	if stats.ActiveTeamToday, err = countActiveCallersSince(db, startOfToday); err != nil {
		return nil, err
	}
	return &stats, nil
}

// countCalls считает записи звонков, обновлённые после границы.
// nonPendingOnly исключает записи, по которым ещё не было действия.
func countCalls(db *sql.DB, since time.Time, nonPendingOnly bool) (int, error) {
	ctx, cancel := queryContext()
	defer cancel()

	q := "SELECT COUNT(*) FROM call_records WHERE TRUE"
	var args []interface{}
	if !since.IsZero() {
		args = append(args, since)
		q += fmt.Sprintf(" AND updated_at >= $%d", len(args))
	}
	if nonPendingOnly {
		q += " AND status <> 'pending'"
	}

	var n int
	if err := db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, database.Classify("countCalls", err)
	}
	return n, nil
}

func countUsers(db *sql.DB) (int, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return 0, database.Classify("countUsers", err)
	}
	return n, nil
}

// countActiveCallersSince считает сотрудников, совершивших хотя бы одно
// действие по звонку после границы.
func countActiveCallersSince(db *sql.DB, since time.Time) (int, error) {
	ctx, cancel := queryContext()
	defer cancel()

	const q = `
		SELECT COUNT(DISTINCT user_id)
		  FROM call_records
		 WHERE updated_at >= $1 AND status <> 'pending'`
	var n int
	if err := db.QueryRowContext(ctx, q, since).Scan(&n); err != nil {
		return 0, database.Classify("countActiveCallersSince", err)
	}
	return n, nil
}
