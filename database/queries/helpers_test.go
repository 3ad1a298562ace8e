package queries

import "testing"

// Предикат активной записи должен дословно совпадать с условием частичного
// уникального индекса call_records_active_contact_idx, иначе выборки и
// ограничение хранилища будут видеть разные наборы записей.
func TestActiveCallCond(t *testing.T) {
	tests := []struct {
		col  string
		want string
	}{
		{"status", "status NOT IN ('completed','cancelled')"},
		{"cr.status", "cr.status NOT IN ('completed','cancelled')"},
	}
	for _, tt := range tests {
		if got := activeCallCond(tt.col); got != tt.want {
			t.Errorf("activeCallCond(%q) = %q, ожидалось %q", tt.col, got, tt.want)
		}
	}
}
