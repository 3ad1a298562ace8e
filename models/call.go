package models

import (
	"time"

	"github.com/google/uuid"
)

// Статусы записи звонка
const (
	StatusPending     = "pending"
	StatusInProgress  = "in-progress"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusNoAnswer    = "no-answer"
	StatusCallback    = "callback"
	StatusRejected    = "rejected"
	StatusUndecided   = "undecided"
	StatusConfirmed   = "confirmed"
	StatusUnreachable = "unreachable"
)

// ValidStatuses - полный набор допустимых статусов звонка
var ValidStatuses = []string{
	StatusPending, StatusInProgress, StatusCompleted, StatusCancelled,
	StatusNoAnswer, StatusCallback, StatusRejected, StatusUndecided,
	StatusConfirmed, StatusUnreachable,
}

// IsValidStatus проверяет, входит ли статус в допустимый набор
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminalStatus проверяет, является ли статус терминальным.
// Терминальная запись освобождает контакт для повторного назначения.
func IsTerminalStatus(s string) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CallRecord представляет собой запись звонка: назначение контакта сотруднику
// и итог разговора
type CallRecord struct {
	ID          uuid.UUID `json:"id"`
	ContactID   uuid.UUID `json:"contact_id"`
	UserID      uuid.UUID `json:"user_id"`
	Status      string    `json:"status"`
	Comments    *string   `json:"comments,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CallWithContact - запись звонка вместе с данными контакта
type CallWithContact struct {
	CallRecord
	Name    string  `json:"name"`
	Number  string  `json:"number"`
	Address *string `json:"address,omitempty"`
}

// CallDetails - запись звонка с данными контакта и именем сотрудника
type CallDetails struct {
	CallWithContact
	Username string `json:"username"`
}

// CallOutcome - облегчённая проекция завершённого действия по звонку,
// используется движком агрегации для отчётов
type CallOutcome struct {
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DashboardStats - сводные показатели для панели администратора
type DashboardStats struct {
	TotalContacts     int `json:"totalContacts"`
	ContactsThisMonth int `json:"contactsThisMonth"`
	TotalCalls        int `json:"totalCalls"`
	CallsToday        int `json:"callsToday"`
	CallsThisMonth    int `json:"callsThisMonth"`
	CallsThisYear     int `json:"callsThisYear"`
	TotalTeamMembers  int `json:"totalTeamMembers"`
	ActiveTeamToday   int `json:"activeTeamToday"`
}
