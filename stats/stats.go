// Package stats - чистые функции агрегации для панели администратора.
// Все функции работают над уже выбранными из базы строками и не имеют
// побочных эффектов; календарные границы считаются от переданного "сейчас"
// в его часовом поясе.
package stats

import (
	"fmt"
	"time"

	"github.com/egor/callcenterserver/models"
)

// MonthBucket - один календарный месяц для графика загрузки контактов.
type MonthBucket struct {
	Month string `json:"month"` // ключ YYYY-MM
	Count int    `json:"count"`
	Label string `json:"label"` // например "Jan 2026"
}

// MonthlyContactCounts раскладывает отметки загрузки контактов по последним
// months календарным месяцам. Пустые месяцы присутствуют с нулевым счётчиком.
func MonthlyContactCounts(uploadTimes []time.Time, now time.Time, months int) []MonthBucket {
	buckets := make([]MonthBucket, 0, months)
	index := make(map[string]int, months)

	for i := months - 1; i >= 0; i-- {
		m := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		key := m.Format("2006-01")
		index[key] = len(buckets)
		buckets = append(buckets, MonthBucket{
			Month: key,
			Label: m.Format("Jan 2006"),
		})
	}

	for _, t := range uploadTimes {
		if i, ok := index[t.In(now.Location()).Format("2006-01")]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// DayBucket - один календарный день для графика активности.
type DayBucket struct {
	Date  string `json:"date"` // ключ YYYY-MM-DD
	Count int    `json:"count"`
	Label string `json:"label"` // например "Jan 2"
}

// DailyCallCounts раскладывает отметки действий по звонкам (updated_at
// не-pending записей) по последним days календарным дням с зануленными
// пустыми днями.
func DailyCallCounts(callTimes []time.Time, now time.Time, days int) []DayBucket {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	buckets := make([]DayBucket, 0, days)
	index := make(map[string]int, days)

	for i := days - 1; i >= 0; i-- {
		d := startOfToday.AddDate(0, 0, -i)
		key := d.Format("2006-01-02")
		index[key] = len(buckets)
		buckets = append(buckets, DayBucket{
			Date:  key,
			Label: d.Format("Jan 2"),
		})
	}

	for _, t := range callTimes {
		if i, ok := index[t.In(now.Location()).Format("2006-01-02")]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// StatusTotals - итоги года по пяти исходам плюс корзина other для
// нераспознанных статусов.
type StatusTotals struct {
	Confirmed   int `json:"confirmed"`
	Rejected    int `json:"rejected"`
	Unreachable int `json:"unreachable"`
	Callback    int `json:"callback"`
	Undecided   int `json:"undecided"`
	Other       int `json:"other"`
}

// MonthBreakdown - итоги одного месяца годового отчёта.
type MonthBreakdown struct {
	Month       string `json:"month"` // "Jan" ... "Dec"
	Total       int    `json:"total"`
	Confirmed   int    `json:"confirmed"`
	Rejected    int    `json:"rejected"`
	Unreachable int    `json:"unreachable"`
	Callback    int    `json:"callback"`
	Undecided   int    `json:"undecided"`
}

// YearlyReport - годовой отчёт для админки.
type YearlyReport struct {
	Year             int              `json:"year"`
	TotalCalls       int              `json:"totalCalls"`
	ContactsAdded    int              `json:"contactsAdded"`
	StatusTotals     StatusTotals     `json:"statusTotals"`
	MonthlyBreakdown []MonthBreakdown `json:"monthlyBreakdown"`
	ConversionRate   string           `json:"conversionRate"`
}

// BuildYearlyReport раскладывает исходы звонков выбранного года по месяцам
// и исходам. outcomes должны быть заранее отфильтрованы по году и не
// содержать pending-записей.
func BuildYearlyReport(outcomes []models.CallOutcome, contactsAdded, year int) YearlyReport {
	report := YearlyReport{
		Year:             year,
		TotalCalls:       len(outcomes),
		ContactsAdded:    contactsAdded,
		MonthlyBreakdown: make([]MonthBreakdown, 12),
	}
	for i := 0; i < 12; i++ {
		report.MonthlyBreakdown[i].Month = time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC).Format("Jan")
	}

	for _, o := range outcomes {
		month := &report.MonthlyBreakdown[int(o.UpdatedAt.Month())-1]
		month.Total++

		switch o.Status {
		case models.StatusConfirmed:
			month.Confirmed++
			report.StatusTotals.Confirmed++
		case models.StatusRejected:
			month.Rejected++
			report.StatusTotals.Rejected++
		case models.StatusUnreachable:
			month.Unreachable++
			report.StatusTotals.Unreachable++
		case models.StatusCallback:
			month.Callback++
			report.StatusTotals.Callback++
		case models.StatusUndecided:
			month.Undecided++
			report.StatusTotals.Undecided++
		default:
			report.StatusTotals.Other++
		}
	}

	report.ConversionRate = ConversionRate(report.StatusTotals.Confirmed, report.TotalCalls)
	return report
}

// MemberPerformance - показатели одного сотрудника.
type MemberPerformance struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	IsAdmin        bool       `json:"isAdmin"`
	JoinedAt       time.Time  `json:"joinedAt"`
	CallsToday     int        `json:"callsToday"`
	CallsThisWeek  int        `json:"callsThisWeek"`
	CallsThisMonth int        `json:"callsThisMonth"`
	TotalCalls     int        `json:"totalCalls"`
	ConfirmedCalls int        `json:"confirmedCalls"`
	ConversionRate string     `json:"conversionRate"`
	LastActivity   *time.Time `json:"lastActivity"`
}

// TeamPerformance считает для каждого сотрудника число действий по звонкам
// в скользящих календарных окнах (сегодня / эта неделя / этот месяц / всего),
// число подтверждений, конверсию и время последнего действия.
// Неделя начинается с воскресенья; границы - от полуночи сервера,
// не скользящие 24 часа.
func TeamPerformance(users []models.User, outcomes []models.CallOutcome, now time.Time) []MemberPerformance {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfToday.AddDate(0, 0, -int(now.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	byUser := make(map[string]*MemberPerformance, len(users))
	result := make([]MemberPerformance, 0, len(users))
	for _, u := range users {
		name := u.FullName
		if name == "" {
			name = u.Username
		}
		result = append(result, MemberPerformance{
			ID:             u.ID.String(),
			Name:           name,
			Email:          u.Email,
			IsAdmin:        u.IsAdmin,
			JoinedAt:       u.CreatedAt,
			ConversionRate: ConversionRate(0, 0),
		})
	}
	for i := range result {
		byUser[result[i].ID] = &result[i]
	}

	for _, o := range outcomes {
		m, ok := byUser[o.UserID.String()]
		if !ok {
			continue
		}
		m.TotalCalls++
		if o.Status == models.StatusConfirmed {
			m.ConfirmedCalls++
		}
		if !o.UpdatedAt.Before(startOfToday) {
			m.CallsToday++
		}
		if !o.UpdatedAt.Before(startOfWeek) {
			m.CallsThisWeek++
		}
		if !o.UpdatedAt.Before(startOfMonth) {
			m.CallsThisMonth++
		}
		if m.LastActivity == nil || o.UpdatedAt.After(*m.LastActivity) {
			t := o.UpdatedAt
			m.LastActivity = &t
		}
	}

	for i := range result {
		result[i].ConversionRate = ConversionRate(result[i].ConfirmedCalls, result[i].TotalCalls)
	}
	return result
}

// ConversionRate возвращает долю подтверждённых звонков в процентах с одним
// знаком после запятой. При нулевом знаменателе всегда "0.0", не ошибка и не NaN.
func ConversionRate(confirmed, total int) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(confirmed)/float64(total)*100)
}
