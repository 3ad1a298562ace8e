package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/egor/callcenterserver/database/queries"
	"github.com/egor/callcenterserver/stats"
)

// CheckAdmin сообщает, является ли текущий пользователь администратором
func CheckAdmin(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		isAdmin, err := queries.IsAdmin(db, userID)
		if err != nil {
			respondError(c, "CheckAdmin", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"isAdmin": isAdmin})
	}
}

// GetStats возвращает сводные показатели панели администратора
func GetStats(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dashboard, err := queries.DashboardStats(db)
		if err != nil {
			respondError(c, "GetStats", err)
			return
		}

		c.JSON(http.StatusOK, dashboard)
	}
}

// GetContactsMonthly возвращает помесячную загрузку контактов за последний год
func GetContactsMonthly(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		times, err := queries.ListContactUploadTimes(db)
		if err != nil {
			respondError(c, "GetContactsMonthly", err)
			return
		}

		c.JSON(http.StatusOK, stats.MonthlyContactCounts(times, time.Now(), 12))
	}
}

// GetContactsAll возвращает все контакты с данными загрузивших
func GetContactsAll(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		contacts, err := queries.ListContactsWithUploader(db, nil)
		if err != nil {
			respondError(c, "GetContactsAll", err)
			return
		}

		c.JSON(http.StatusOK, contacts)
	}
}

// GetContactsThisMonth возвращает контакты, загруженные с начала месяца
func GetContactsThisMonth(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		contacts, err := queries.ListContactsWithUploader(db, &startOfMonth)
		if err != nil {
			respondError(c, "GetContactsThisMonth", err)
			return
		}

		c.JSON(http.StatusOK, contacts)
	}
}

// GetCallsToday возвращает действия по звонкам с начала сегодняшнего дня
func GetCallsToday(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

		calls, err := queries.ListCallsSince(db, startOfToday)
		if err != nil {
			respondError(c, "GetCallsToday", err)
			return
		}

		c.JSON(http.StatusOK, calls)
	}
}

// GetCallsDaily возвращает посуточную активность за последние 30 дней
func GetCallsDaily(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()

		outcomes, err := queries.ListCallOutcomes(db, now.AddDate(0, 0, -30), time.Time{})
		if err != nil {
			respondError(c, "GetCallsDaily", err)
			return
		}

		times := make([]time.Time, len(outcomes))
		for i, o := range outcomes {
			times[i] = o.UpdatedAt
		}

		c.JSON(http.StatusOK, stats.DailyCallCounts(times, now, 30))
	}
}

// GetTeamPerformance возвращает показатели всех сотрудников
func GetTeamPerformance(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := queries.ListUsers(db)
		if err != nil {
			respondError(c, "GetTeamPerformance", err)
			return
		}

		outcomes, err := queries.ListCallOutcomes(db, time.Time{}, time.Time{})
		if err != nil {
			respondError(c, "GetTeamPerformance", err)
			return
		}

		c.JSON(http.StatusOK, stats.TeamPerformance(users, outcomes, time.Now()))
	}
}

// GetYearlyReport возвращает годовой отчёт (?year=, по умолчанию текущий год)
func GetYearlyReport(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		year := now.Year()
		if raw := c.Query("year"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				year = parsed
			}
		}

		startOfYear := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
		endOfYear := time.Date(year, time.December, 31, 23, 59, 59, 0, now.Location())

		outcomes, err := queries.ListCallOutcomes(db, startOfYear, endOfYear)
		if err != nil {
			respondError(c, "GetYearlyReport", err)
			return
		}

		contactsAdded, err := queries.CountContacts(db, startOfYear, endOfYear)
		if err != nil {
			respondError(c, "GetYearlyReport", err)
			return
		}

		c.JSON(http.StatusOK, stats.BuildYearlyReport(outcomes, contactsAdded, year))
	}
}
