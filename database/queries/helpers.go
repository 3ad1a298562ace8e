package queries

import (
	"context"
	"strings"
	"time"

	"github.com/egor/callcenterserver/models"
)

const (
	dbQueryTimeout = 5 * time.Second

	// BulkBatchSize - размер пакета при массовой загрузке контактов.
	// Каждый пакет вставляется отдельно, сбой одного не откатывает остальные.
	BulkBatchSize = 100
)

// queryContext создаёт контекст с тайм-аутом для одного обращения к базе.
func queryContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbQueryTimeout)
}

// activeCallCond - SQL-условие "запись звонка активна" (нетерминальный статус).
// Выводится из доменного набора статусов, чтобы предикат выборок не разошёлся
// с models.IsTerminalStatus и с частичным индексом в миграции.
func activeCallCond(col string) string {
	var terminal []string
	for _, s := range models.ValidStatuses {
		if models.IsTerminalStatus(s) {
			terminal = append(terminal, "'"+s+"'")
		}
	}
	return col + " NOT IN (" + strings.Join(terminal, ",") + ")"
}
