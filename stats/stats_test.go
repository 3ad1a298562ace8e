package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/egor/callcenterserver/models"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.Local)
}

func TestMonthlyContactCountsZeroFill(t *testing.T) {
	now := date(2026, time.March, 15, 12)

	buckets := MonthlyContactCounts(nil, now, 12)
	if len(buckets) != 12 {
		t.Fatalf("ожидалось 12 корзин, получено %d", len(buckets))
	}
	if buckets[0].Month != "2025-04" {
		t.Errorf("первая корзина: ожидалось 2025-04, получено %s", buckets[0].Month)
	}
	if buckets[11].Month != "2026-03" {
		t.Errorf("последняя корзина: ожидалось 2026-03, получено %s", buckets[11].Month)
	}
	if buckets[11].Label != "Mar 2026" {
		t.Errorf("метка последней корзины: ожидалось Mar 2026, получено %s", buckets[11].Label)
	}
	for _, b := range buckets {
		if b.Count != 0 {
			t.Errorf("корзина %s: ожидался 0, получено %d", b.Month, b.Count)
		}
	}
}

func TestMonthlyContactCounts(t *testing.T) {
	now := date(2026, time.March, 15, 12)
	uploads := []time.Time{
		date(2026, time.March, 1, 9),
		date(2026, time.March, 14, 18),
		date(2026, time.February, 28, 10),
		date(2025, time.April, 1, 0),
		date(2025, time.March, 31, 23), // за границей окна
	}

	buckets := MonthlyContactCounts(uploads, now, 12)

	counts := map[string]int{}
	for _, b := range buckets {
		counts[b.Month] = b.Count
	}
	if counts["2026-03"] != 2 {
		t.Errorf("2026-03: ожидалось 2, получено %d", counts["2026-03"])
	}
	if counts["2026-02"] != 1 {
		t.Errorf("2026-02: ожидалось 1, получено %d", counts["2026-02"])
	}
	if counts["2025-04"] != 1 {
		t.Errorf("2025-04: ожидалось 1, получено %d", counts["2025-04"])
	}

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	if total != 4 {
		t.Errorf("всего: ожидалось 4, получено %d", total)
	}
}

func TestDailyCallCounts(t *testing.T) {
	now := date(2026, time.March, 15, 12)
	calls := []time.Time{
		date(2026, time.March, 15, 9),
		date(2026, time.March, 15, 11),
		date(2026, time.March, 1, 23),
		date(2026, time.February, 14, 12), // ровно первая корзина окна
		date(2026, time.February, 13, 12), // за границей окна
	}

	buckets := DailyCallCounts(calls, now, 30)
	if len(buckets) != 30 {
		t.Fatalf("ожидалось 30 корзин, получено %d", len(buckets))
	}
	if buckets[0].Date != "2026-02-14" {
		t.Errorf("первая корзина: ожидалось 2026-02-14, получено %s", buckets[0].Date)
	}

	last := buckets[29]
	if last.Date != "2026-03-15" || last.Count != 2 {
		t.Errorf("последняя корзина: ожидалось 2026-03-15 со счётчиком 2, получено %s/%d",
			last.Date, last.Count)
	}
	if last.Label != "Mar 15" {
		t.Errorf("метка: ожидалось Mar 15, получено %s", last.Label)
	}

	counts := map[string]int{}
	for _, b := range buckets {
		counts[b.Date] = b.Count
	}
	if counts["2026-03-01"] != 1 {
		t.Errorf("2026-03-01: ожидалось 1, получено %d", counts["2026-03-01"])
	}
	if counts["2026-02-14"] != 1 {
		t.Errorf("2026-02-14: ожидалось 1, получено %d", counts["2026-02-14"])
	}
}

func TestDailyCallCountsEmpty(t *testing.T) {
	buckets := DailyCallCounts(nil, date(2026, time.March, 15, 12), 30)
	if len(buckets) != 30 {
		t.Fatalf("ожидалось 30 корзин, получено %d", len(buckets))
	}
	for _, b := range buckets {
		if b.Count != 0 {
			t.Errorf("корзина %s: ожидался 0, получено %d", b.Date, b.Count)
		}
	}
}

func TestConversionRate(t *testing.T) {
	tests := []struct {
		confirmed, total int
		want             string
	}{
		{0, 0, "0.0"},
		{5, 0, "0.0"},
		{1, 2, "50.0"},
		{1, 3, "33.3"},
		{2, 3, "66.7"},
		{1, 8, "12.5"},
		{10, 10, "100.0"},
	}
	for _, tt := range tests {
		if got := ConversionRate(tt.confirmed, tt.total); got != tt.want {
			t.Errorf("ConversionRate(%d, %d) = %q, ожидалось %q",
				tt.confirmed, tt.total, got, tt.want)
		}
	}
}

func TestBuildYearlyReportEmpty(t *testing.T) {
	report := BuildYearlyReport(nil, 0, 2026)

	if report.TotalCalls != 0 {
		t.Errorf("TotalCalls: ожидался 0, получено %d", report.TotalCalls)
	}
	if report.ConversionRate != "0.0" {
		t.Errorf("ConversionRate: ожидалось 0.0, получено %s", report.ConversionRate)
	}
	if len(report.MonthlyBreakdown) != 12 {
		t.Fatalf("ожидалось 12 месяцев, получено %d", len(report.MonthlyBreakdown))
	}
	if report.MonthlyBreakdown[0].Month != "Jan" || report.MonthlyBreakdown[11].Month != "Dec" {
		t.Errorf("названия месяцев: получено %s ... %s",
			report.MonthlyBreakdown[0].Month, report.MonthlyBreakdown[11].Month)
	}
}

func TestBuildYearlyReport(t *testing.T) {
	user := uuid.New()
	outcomes := []models.CallOutcome{
		{UserID: user, Status: models.StatusConfirmed, UpdatedAt: date(2026, time.January, 10, 9)},
		{UserID: user, Status: models.StatusConfirmed, UpdatedAt: date(2026, time.January, 20, 9)},
		{UserID: user, Status: models.StatusRejected, UpdatedAt: date(2026, time.March, 5, 9)},
		{UserID: user, Status: models.StatusCallback, UpdatedAt: date(2026, time.December, 31, 9)},
		{UserID: user, Status: models.StatusCompleted, UpdatedAt: date(2026, time.June, 1, 9)}, // нераспознанный исход
	}

	report := BuildYearlyReport(outcomes, 42, 2026)

	if report.Year != 2026 || report.TotalCalls != 5 || report.ContactsAdded != 42 {
		t.Errorf("заголовок отчёта: %d/%d/%d", report.Year, report.TotalCalls, report.ContactsAdded)
	}
	if report.StatusTotals.Confirmed != 2 {
		t.Errorf("Confirmed: ожидалось 2, получено %d", report.StatusTotals.Confirmed)
	}
	if report.StatusTotals.Rejected != 1 || report.StatusTotals.Callback != 1 {
		t.Errorf("Rejected/Callback: %d/%d", report.StatusTotals.Rejected, report.StatusTotals.Callback)
	}
	if report.StatusTotals.Other != 1 {
		t.Errorf("Other: ожидалось 1, получено %d", report.StatusTotals.Other)
	}

	jan := report.MonthlyBreakdown[0]
	if jan.Total != 2 || jan.Confirmed != 2 {
		t.Errorf("январь: total=%d confirmed=%d", jan.Total, jan.Confirmed)
	}
	jun := report.MonthlyBreakdown[5]
	if jun.Total != 1 || jun.Confirmed != 0 {
		t.Errorf("июнь: total=%d confirmed=%d", jun.Total, jun.Confirmed)
	}

	// 2 подтверждения из 5 звонков
	if report.ConversionRate != "40.0" {
		t.Errorf("ConversionRate: ожидалось 40.0, получено %s", report.ConversionRate)
	}
}

func TestTeamPerformanceEmpty(t *testing.T) {
	users := []models.User{
		{ID: uuid.New(), Email: "ivan@example.com", FullName: "Иван Петров", Username: "ivan"},
	}

	result := TeamPerformance(users, nil, date(2026, time.March, 18, 12))
	if len(result) != 1 {
		t.Fatalf("ожидался 1 сотрудник, получено %d", len(result))
	}

	m := result[0]
	if m.TotalCalls != 0 || m.CallsToday != 0 || m.CallsThisWeek != 0 || m.CallsThisMonth != 0 {
		t.Errorf("счётчики должны быть нулевыми: %+v", m)
	}
	if m.ConversionRate != "0.0" {
		t.Errorf("ConversionRate: ожидалось 0.0, получено %s", m.ConversionRate)
	}
	if m.LastActivity != nil {
		t.Errorf("LastActivity: ожидался nil, получено %v", m.LastActivity)
	}
}

func TestTeamPerformanceWindows(t *testing.T) {
	// 2026-03-18 - среда; неделя (с воскресенья) началась 2026-03-15
	now := date(2026, time.March, 18, 12)

	ivan := uuid.New()
	maria := uuid.New()
	users := []models.User{
		{ID: ivan, Email: "ivan@example.com", FullName: "Иван Петров"},
		{ID: maria, Email: "maria@example.com", FullName: "", Username: "maria"},
	}

	outcomes := []models.CallOutcome{
		{UserID: ivan, Status: models.StatusConfirmed, UpdatedAt: date(2026, time.March, 18, 9)},  // сегодня
		{UserID: ivan, Status: models.StatusRejected, UpdatedAt: date(2026, time.March, 16, 9)},   // эта неделя
		{UserID: ivan, Status: models.StatusNoAnswer, UpdatedAt: date(2026, time.March, 14, 9)},   // прошлая неделя, этот месяц
		{UserID: ivan, Status: models.StatusConfirmed, UpdatedAt: date(2026, time.February, 1, 9)}, // прошлый месяц
		{UserID: uuid.New(), Status: models.StatusConfirmed, UpdatedAt: now},                      // неизвестный сотрудник
	}

	result := TeamPerformance(users, outcomes, now)
	if len(result) != 2 {
		t.Fatalf("ожидалось 2 сотрудника, получено %d", len(result))
	}

	m := result[0]
	if m.Name != "Иван Петров" {
		t.Fatalf("порядок сотрудников нарушен: %s", m.Name)
	}
	if m.CallsToday != 1 {
		t.Errorf("CallsToday: ожидалось 1, получено %d", m.CallsToday)
	}
	if m.CallsThisWeek != 2 {
		t.Errorf("CallsThisWeek: ожидалось 2, получено %d", m.CallsThisWeek)
	}
	if m.CallsThisMonth != 3 {
		t.Errorf("CallsThisMonth: ожидалось 3, получено %d", m.CallsThisMonth)
	}
	if m.TotalCalls != 4 {
		t.Errorf("TotalCalls: ожидалось 4, получено %d", m.TotalCalls)
	}
	if m.ConfirmedCalls != 2 {
		t.Errorf("ConfirmedCalls: ожидалось 2, получено %d", m.ConfirmedCalls)
	}
	if m.ConversionRate != "50.0" {
		t.Errorf("ConversionRate: ожидалось 50.0, получено %s", m.ConversionRate)
	}
	if m.LastActivity == nil || !m.LastActivity.Equal(date(2026, time.March, 18, 9)) {
		t.Errorf("LastActivity: получено %v", m.LastActivity)
	}

	// Пустое имя заменяется на username
	if result[1].Name != "maria" {
		t.Errorf("имя второго сотрудника: ожидалось maria, получено %s", result[1].Name)
	}
	if result[1].TotalCalls != 0 || result[1].ConversionRate != "0.0" {
		t.Errorf("второй сотрудник без звонков: %+v", result[1])
	}
}
