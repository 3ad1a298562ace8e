package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact представляет собой контакт (телефонный лид) из общего пула
type Contact struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Number     string    `json:"number"`
	Address    *string   `json:"address,omitempty"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewContact - входные данные для загрузки контакта (одиночной или массовой)
type NewContact struct {
	Name    string  `json:"name"`
	Number  string  `json:"number"`
	Address *string `json:"address,omitempty"`
}

// ContactWithCall - контакт вместе с его активной записью звонка (если есть)
type ContactWithCall struct {
	Contact
	CallRecordID *uuid.UUID `json:"call_record_id"`
	CallStatus   *string    `json:"call_status"`
	AssignedTo   *uuid.UUID `json:"assigned_to"`
}

// ContactWithUploader - контакт с данными загрузившего сотрудника (для админки)
type ContactWithUploader struct {
	Contact
	UploaderName  string `json:"uploader_name"`
	UploaderEmail string `json:"uploader_email"`
}
