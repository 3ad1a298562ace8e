package queries

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/egor/callcenterserver/database"
	"github.com/egor/callcenterserver/models"
)

// CreateContact загружает один контакт в общий пул.
func CreateContact(db *sql.DB, uploadedBy uuid.UUID, in models.NewContact) (*models.Contact, error) {
	ctx, cancel := queryContext()
	defer cancel()

	contact := models.Contact{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(in.Name),
		Number:     strings.TrimSpace(in.Number),
		UploadedBy: uploadedBy,
		UploadedAt: time.Now(),
	}
	if addr := database.TrimmedNullString(in.Address); addr.Valid {
		contact.Address = &addr.String
	}

	const q = `
		INSERT INTO contacts(id,name,number,address,uploaded_by,uploaded_at)
		VALUES($1,$2,$3,$4,$5,$6)`
	if _, err := db.ExecContext(ctx, q,
		contact.ID, contact.Name, contact.Number,
		database.PointerToNullString(contact.Address),
		contact.UploadedBy, contact.UploadedAt,
	); err != nil {
		return nil, database.Classify("CreateContact", err)
	}

	log.Printf("CreateContact: контакт %s загружен пользователем %s", contact.ID, uploadedBy)
	return &contact, nil
}

// BatchError описывает сбой одного пакета при массовой загрузке.
type BatchError struct {
	Batch            int    `json:"batch"`
	Error            string `json:"error"`
	ContactsAffected int    `json:"contactsAffected"`
}

// BulkInsertContacts вставляет контакты пакетами по BulkBatchSize.
// Пакеты независимы: сбой одного не блокирует и не откатывает остальные.
// Возвращает число вставленных строк и описание сбойных пакетов.
func BulkInsertContacts(db *sql.DB, uploadedBy uuid.UUID, list []models.NewContact) (int, []BatchError) {
	inserted := 0
	var batchErrors []BatchError

	for start, batchNum := 0, 1; start < len(list); start, batchNum = start+BulkBatchSize, batchNum+1 {
		end := start + BulkBatchSize
		if end > len(list) {
			end = len(list)
		}
		batch := list[start:end]

		if err := insertContactBatch(db, uploadedBy, batch); err != nil {
			log.Printf("BulkInsertContacts: ошибка вставки пакета %d: %v", batchNum, err)
			batchErrors = append(batchErrors, BatchError{
				Batch:            batchNum,
				Error:            safeBatchMessage(err),
				ContactsAffected: len(batch),
			})
			continue
		}
		inserted += len(batch)
	}

	log.Printf("BulkInsertContacts: вставлено %d из %d контактов", inserted, len(list))
	return inserted, batchErrors
}

func insertContactBatch(db *sql.DB, uploadedBy uuid.UUID, batch []models.NewContact) error {
	ctx, cancel := queryContext()
	defer cancel()

	now := time.Now()
	var sb strings.Builder
	sb.WriteString("INSERT INTO contacts(id,name,number,address,uploaded_by,uploaded_at) VALUES")

	args := make([]interface{}, 0, len(batch)*6)
	for i, in := range batch {
		if i > 0 {
			sb.WriteString(",")
		}
		base := i * 6
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6)

		args = append(args,
			uuid.New(), strings.TrimSpace(in.Name), strings.TrimSpace(in.Number),
			database.TrimmedNullString(in.Address), uploadedBy, now,
		)
	}

	if _, err := db.ExecContext(ctx, sb.String(), args...); err != nil {
		return database.Classify("insertContactBatch", err)
	}
	return nil
}

// safeBatchMessage возвращает сообщение о сбое пакета без деталей драйвера.
func safeBatchMessage(err error) string {
	switch {
	case database.IsDuplicate(err):
		return "пакет содержит дубликаты"
	case database.IsForeignKey(err):
		return "пакет ссылается на несуществующего пользователя"
	case database.IsUnavailable(err):
		return "база данных временно недоступна, повторите позже"
	default:
		return "ошибка вставки пакета"
	}
}

// ListContactsForUser возвращает все контакты с их активной записью звонка,
// отфильтрованные до свободных либо назначенных текущему пользователю.
func ListContactsForUser(db *sql.DB, userID uuid.UUID) ([]models.ContactWithCall, error) {
	ctx, cancel := queryContext()
	defer cancel()

	q := `
		SELECT c.id,c.name,c.number,c.address,c.uploaded_by,c.uploaded_at,
		       cr.id,cr.status,cr.user_id
		  FROM contacts c
		  LEFT JOIN LATERAL (
		    SELECT id,status,user_id
		      FROM call_records
		     WHERE contact_id=c.id AND ` + activeCallCond("status") + `
		     LIMIT 1
		  ) cr ON TRUE
		 WHERE cr.id IS NULL OR cr.user_id=$1
		 ORDER BY c.uploaded_at DESC`
	rows, err := db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, database.Classify("ListContactsForUser", err)
	}
	defer rows.Close()

	var list []models.ContactWithCall
	for rows.Next() {
		var (
			c            models.ContactWithCall
			addressNull  sql.NullString
			recordNull   sql.NullString
			statusNull   sql.NullString
			assignedNull sql.NullString
		)
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Number, &addressNull, &c.UploadedBy, &c.UploadedAt,
			&recordNull, &statusNull, &assignedNull,
		); err != nil {
			return nil, database.Classify("ListContactsForUser: scan", err)
		}
		c.Address = database.NullStringToPointer(addressNull)
		c.CallStatus = database.NullStringToPointer(statusNull)
		if c.CallRecordID, err = database.NullUUIDToPointer(recordNull); err != nil {
			return nil, fmt.Errorf("ListContactsForUser: разбор call_record_id: %w", err)
		}
		if c.AssignedTo, err = database.NullUUIDToPointer(assignedNull); err != nil {
			return nil, fmt.Errorf("ListContactsForUser: разбор assigned_to: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify("ListContactsForUser: rows", err)
	}
	return list, nil
}

// ListAvailableContacts возвращает контакты без активной записи звонка.
func ListAvailableContacts(db *sql.DB) ([]models.Contact, error) {
	ctx, cancel := queryContext()
	defer cancel()

	q := `
		SELECT c.id,c.name,c.number,c.address,c.uploaded_by,c.uploaded_at
		  FROM contacts c
		 WHERE NOT EXISTS (
		   SELECT 1 FROM call_records
		    WHERE contact_id=c.id AND ` + activeCallCond("status") + `
		 )
		 ORDER BY c.uploaded_at DESC`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, database.Classify("ListAvailableContacts", err)
	}
	defer rows.Close()

	var list []models.Contact
	for rows.Next() {
		var c models.Contact
		var addressNull sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Number, &addressNull, &c.UploadedBy, &c.UploadedAt,
		); err != nil {
			return nil, database.Classify("ListAvailableContacts: scan", err)
		}
		c.Address = database.NullStringToPointer(addressNull)
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify("ListAvailableContacts: rows", err)
	}
	return list, nil
}

// GetContactByID возвращает контакт по идентификатору.
func GetContactByID(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var c models.Contact
	var addressNull sql.NullString

	const q = `
		SELECT id,name,number,address,uploaded_by,uploaded_at
		  FROM contacts
		 WHERE id=$1`
	if err := db.QueryRowContext(ctx, q, id).Scan(
		&c.ID, &c.Name, &c.Number, &addressNull, &c.UploadedBy, &c.UploadedAt,
	); err != nil {
		return nil, database.Classify("GetContactByID", err)
	}
	c.Address = database.NullStringToPointer(addressNull)
	return &c, nil
}

// ListContactsWithUploader возвращает контакты с данными загрузившего.
// since == nil означает все контакты, иначе только загруженные после границы.
func ListContactsWithUploader(db *sql.DB, since *time.Time) ([]models.ContactWithUploader, error) {
	ctx, cancel := queryContext()
	defer cancel()

	q := `
		SELECT c.id,c.name,c.number,c.address,c.uploaded_by,c.uploaded_at,
		       u.full_name,u.email
		  FROM contacts c
		  JOIN users u ON c.uploaded_by=u.id`
	var args []interface{}
	if since != nil {
		q += " WHERE c.uploaded_at >= $1"
		args = append(args, *since)
	}
	q += " ORDER BY c.uploaded_at DESC"

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, database.Classify("ListContactsWithUploader", err)
	}
	defer rows.Close()

	var list []models.ContactWithUploader
	for rows.Next() {
		var c models.ContactWithUploader
		var addressNull sql.NullString
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Number, &addressNull, &c.UploadedBy, &c.UploadedAt,
			&c.UploaderName, &c.UploaderEmail,
		); err != nil {
			return nil, database.Classify("ListContactsWithUploader: scan", err)
		}
		c.Address = database.NullStringToPointer(addressNull)
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify("ListContactsWithUploader: rows", err)
	}
	return list, nil
}

// ListContactUploadTimes возвращает отметки времени загрузки всех контактов
// (вход для помесячной агрегации).
func ListContactUploadTimes(db *sql.DB) ([]time.Time, error) {
	ctx, cancel := queryContext()
	defer cancel()

	rows, err := db.QueryContext(ctx,
		"SELECT uploaded_at FROM contacts ORDER BY uploaded_at ASC")
	if err != nil {
		return nil, database.Classify("ListContactUploadTimes", err)
	}
	defer rows.Close()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, database.Classify("ListContactUploadTimes: scan", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify("ListContactUploadTimes: rows", err)
	}
	return times, nil
}

// CountContacts считает контакты, загруженные в интервале [from, to].
// Нулевые границы не ограничивают интервал.
func CountContacts(db *sql.DB, from, to time.Time) (int, error) {
	ctx, cancel := queryContext()
	defer cancel()

	q := "SELECT COUNT(*) FROM contacts WHERE TRUE"
	var args []interface{}
	if !from.IsZero() {
		args = append(args, from)
		q += fmt.Sprintf(" AND uploaded_at >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		q += fmt.Sprintf(" AND uploaded_at <= $%d", len(args))
	}

	var n int
	if err := db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, database.Classify("CountContacts", err)
	}
	return n, nil
}
