package queries

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/egor/callcenterserver/database"
	"github.com/egor/callcenterserver/models"
)

// Инвариант назначения: на контакт может существовать не более одной записи
// звонка с нетерминальным статусом. Он обеспечивается частичным уникальным
// индексом call_records(contact_id) WHERE status NOT IN ('completed','cancelled'),
// поэтому и ClaimContact, и UpdateCall опираются на ограничение хранилища,
// а не на проверку с последующей вставкой.

// ClaimContact атомарно назначает контакт пользователю: создаёт запись звонка
// со статусом pending. Если контакт не найден - ErrNotFound; если у контакта
// уже есть активная запись - ErrDuplicate (конфликт индекса).
func ClaimContact(db *sql.DB, contactID, userID uuid.UUID) (*models.CallWithContact, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var exists bool
	if err := db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM contacts WHERE id=$1)", contactID,
	).Scan(&exists); err != nil {
		return nil, database.Classify("ClaimContact: проверка контакта", err)
	}
	if !exists {
		return nil, fmt.Errorf("ClaimContact: %w", database.ErrNotFound)
	}

	callID := uuid.New()
	now := time.Now()

	const q = `
		INSERT INTO call_records(id,contact_id,user_id,status,comments,requested_at,updated_at)
		VALUES($1,$2,$3,'pending',NULL,$4,$4)`
	if _, err := db.ExecContext(ctx, q, callID, contactID, userID, now); err != nil {
		return nil, database.Classify("ClaimContact: вставка", err)
	}

	log.Printf("ClaimContact: контакт %s назначен пользователю %s (запись %s)",
		contactID, userID, callID)
	return getCallWithContact(ctx, db, callID)
}

// UpdateCallParams - изменяемые поля записи звонка и её контакта.
type UpdateCallParams struct {
	Status         string
	Comments       *string
	UserID         *uuid.UUID
	ContactName    *string
	ContactAddress *string
}

// UpdateCall применяет переход статуса в одной транзакции: при необходимости
// обновляет имя/адрес контакта, затем атомарно перезаписывает статус,
// комментарий, исполнителя и updated_at. Повторное открытие терминальной
// записи проходит тот же частичный индекс: если у контакта уже появилась
// другая активная запись, обновление завершается ErrDuplicate.
func UpdateCall(db *sql.DB, callID, callerID uuid.UUID, p UpdateCallParams) (*models.CallWithContact, error) {
	ctx, cancel := queryContext()
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, database.Classify("UpdateCall: начало транзакции", err)
	}
	defer tx.Rollback()

	var contactID uuid.UUID
	if err := tx.QueryRowContext(ctx,
		"SELECT contact_id FROM call_records WHERE id=$1 FOR UPDATE", callID,
	).Scan(&contactID); err != nil {
		return nil, database.Classify("UpdateCall: поиск записи", err)
	}

	if p.ContactName != nil || p.ContactAddress != nil {
		if err := updateContactFields(ctx, tx, contactID, p.ContactName, p.ContactAddress); err != nil {
			return nil, err
		}
	}

	// Исполнитель: переданный userId (переназначение) либо сам вызывающий
	targetUserID := callerID
	if p.UserID != nil {
		targetUserID = *p.UserID
	}

	const q = `
		UPDATE call_records
		   SET status=$1, comments=$2, user_id=$3, updated_at=$4
		 WHERE id=$5`
	if _, err := tx.ExecContext(ctx, q,
		p.Status, database.PointerToNullString(p.Comments),
		targetUserID, time.Now(), callID,
	); err != nil {
		return nil, database.Classify("UpdateCall: обновление записи", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, database.Classify("UpdateCall: коммит", err)
	}

	log.Printf("UpdateCall: запись %s → статус %s, исполнитель %s", callID, p.Status, targetUserID)
	return getCallWithContact(ctx, db, callID)
}

func updateContactFields(ctx context.Context, tx *sql.Tx, contactID uuid.UUID, name, address *string) error {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)

	if name != nil {
		args = append(args, strings.TrimSpace(*name))
		set = append(set, fmt.Sprintf("name=$%d", len(args)))
	}
	if address != nil {
		// Пустой после обрезки адрес сохраняется как NULL, как и при загрузке
		args = append(args, database.TrimmedNullString(address))
		set = append(set, fmt.Sprintf("address=$%d", len(args)))
	}

	args = append(args, contactID)
	q := fmt.Sprintf("UPDATE contacts SET %s WHERE id=$%d", strings.Join(set, ","), len(args))
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return database.Classify("UpdateCall: обновление контакта", err)
	}
	return nil
}

// querier покрывает и *sql.DB, и *sql.Tx для вспомогательных выборок.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getCallWithContact(ctx context.Context, q querier, callID uuid.UUID) (*models.CallWithContact, error) {
	var call models.CallWithContact
	var commentsNull, addressNull sql.NullString

	const query = `
		SELECT cr.id,cr.contact_id,cr.user_id,cr.status,cr.comments,
		       cr.requested_at,cr.updated_at,
		       c.name,c.number,c.address
		  FROM call_records cr
		  JOIN contacts c ON cr.contact_id=c.id
		 WHERE cr.id=$1`
	if err := q.QueryRowContext(ctx, query, callID).Scan(
		&call.ID, &call.ContactID, &call.UserID, &call.Status, &commentsNull,
		&call.RequestedAt, &call.UpdatedAt,
		&call.Name, &call.Number, &addressNull,
	); err != nil {
		return nil, database.Classify("getCallWithContact", err)
	}
	call.Comments = database.NullStringToPointer(commentsNull)
	call.Address = database.NullStringToPointer(addressNull)
	return &call, nil
}

// GetCallByID возвращает запись звонка с контактом и именем сотрудника.
func GetCallByID(db *sql.DB, callID uuid.UUID) (*models.CallDetails, error) {
	ctx, cancel := queryContext()
	defer cancel()

	rows, err := db.QueryContext(ctx, callDetailsQuery+" WHERE cr.id=$1", callID)
	if err != nil {
		return nil, database.Classify("GetCallByID", err)
	}
	defer rows.Close()

	list, err := scanCallDetails(rows, "GetCallByID")
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("GetCallByID: %w", database.ErrNotFound)
	}
	return &list[0], nil
}

// ListMyCalls возвращает активные записи текущего пользователя,
// новые запросы первыми.
func ListMyCalls(db *sql.DB, userID uuid.UUID) ([]models.CallWithContact, error) {
	ctx, cancel := queryContext()
	defer cancel()

	q := `
		SELECT cr.id,cr.contact_id,cr.user_id,cr.status,cr.comments,
		       cr.requested_at,cr.updated_at,
		       c.name,c.number,c.address
		  FROM call_records cr
		  JOIN contacts c ON cr.contact_id=c.id
		 WHERE cr.user_id=$1 AND ` + activeCallCond("cr.status") + `
		 ORDER BY cr.requested_at DESC`
	rows, err := db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, database.Classify("ListMyCalls", err)
	}
	defer rows.Close()

	var list []models.CallWithContact
	for rows.Next() {
		var call models.CallWithContact
		var commentsNull, addressNull sql.NullString
		if err := rows.Scan(
			&call.ID, &call.ContactID, &call.UserID, &call.Status, &commentsNull,
			&call.RequestedAt, &call.UpdatedAt,
			&call.Name, &call.Number, &addressNull,
		); err != nil {
			return nil, database.Classify("ListMyCalls: scan", err)
		}
		call.Comments = database.NullStringToPointer(commentsNull)
		call.Address = database.NullStringToPointer(addressNull)
		list = append(list, call)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify("ListMyCalls: rows", err)
	}
	return list, nil
}

const callDetailsQuery = `
	SELECT cr.id,cr.contact_id,cr.user_id,cr.status,cr.comments,
	       cr.requested_at,cr.updated_at,
	       c.name,c.number,c.address,
	       u.username
	  FROM call_records cr
	  JOIN contacts c ON cr.contact_id=c.id
	  JOIN users u ON cr.user_id=u.id`

// ListAllCalls возвращает все записи звонков, недавно обновлённые первыми.
func ListAllCalls(db *sql.DB) ([]models.CallDetails, error) {
	ctx, cancel := queryContext()
	defer cancel()

	rows, err := db.QueryContext(ctx, callDetailsQuery+" ORDER BY cr.updated_at DESC")
	if err != nil {
		return nil, database.Classify("ListAllCalls", err)
	}
	defer rows.Close()
	return scanCallDetails(rows, "ListAllCalls")
}

// ListCallsByStatuses возвращает записи с одним из перечисленных статусов
// (выборка для повторных прозвонов).
func ListCallsByStatuses(db *sql.DB, statuses []string) ([]models.CallDetails, error) {
	ctx, cancel := queryContext()
	defer cancel()

	placeholders := make([]string, len(statuses))
	args := make([]interface{}, len(statuses))
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = s
	}

	q := callDetailsQuery +
		" WHERE cr.status IN (" + strings.Join(placeholders, ",") + ")" +
		" ORDER BY cr.updated_at DESC"
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, database.Classify("ListCallsByStatuses", err)
	}
	defer rows.Close()
	return scanCallDetails(rows, "ListCallsByStatuses")
}

// ListCallsSince возвращает незавершённые pending-ом записи, обновлённые после
// границы (список звонков за сегодня для админки).
func ListCallsSince(db *sql.DB, since time.Time) ([]models.CallDetails, error) {
	ctx, cancel := queryContext()
	defer cancel()

	q := callDetailsQuery +
		" WHERE cr.updated_at >= $1 AND cr.status <> 'pending'" +
		" ORDER BY cr.updated_at DESC"
	rows, err := db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, database.Classify("ListCallsSince", err)
	}
	defer rows.Close()
	return scanCallDetails(rows, "ListCallsSince")
}

func scanCallDetails(rows *sql.Rows, op string) ([]models.CallDetails, error) {
	var list []models.CallDetails
	for rows.Next() {
		var call models.CallDetails
		var commentsNull, addressNull sql.NullString
		if err := rows.Scan(
			&call.ID, &call.ContactID, &call.UserID, &call.Status, &commentsNull,
			&call.RequestedAt, &call.UpdatedAt,
			&call.Name, &call.Number, &addressNull,
			&call.Username,
		); err != nil {
			return nil, database.Classify(op+": scan", err)
		}
		call.Comments = database.NullStringToPointer(commentsNull)
		call.Address = database.NullStringToPointer(addressNull)
		list = append(list, call)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify(op+": rows", err)
	}
	return list, nil
}

// ListCallOutcomes возвращает облегчённые проекции всех не-pending записей
// в интервале [from, to] (вход для агрегации). Нулевые границы не ограничивают.
func ListCallOutcomes(db *sql.DB, from, to time.Time) ([]models.CallOutcome, error) {
	ctx, cancel := queryContext()
	defer cancel()

	q := "SELECT user_id,status,updated_at FROM call_records WHERE status <> 'pending'"
	var args []interface{}
	if !from.IsZero() {
		args = append(args, from)
		q += fmt.Sprintf(" AND updated_at >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		q += fmt.Sprintf(" AND updated_at <= $%d", len(args))
	}
	q += " ORDER BY updated_at ASC"

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, database.Classify("ListCallOutcomes", err)
	}
	defer rows.Close()

	var list []models.CallOutcome
	for rows.Next() {
		var o models.CallOutcome
		if err := rows.Scan(&o.UserID, &o.Status, &o.UpdatedAt); err != nil {
			return nil, database.Classify("ListCallOutcomes: scan", err)
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify("ListCallOutcomes: rows", err)
	}
	return list, nil
}
