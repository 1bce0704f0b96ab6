package model

import (
	"expo/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "exhibitions"
	EntityName = "exhibition"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldTitle     = "title"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldLocation  = "location"
	FieldPriority  = "priority"
	FieldImageURLs = "image_urls"
	FieldStatus    = "status"
)

const (
	PriorityMin     = 1
	PriorityMax     = 5
	PriorityDefault = 3
)

type Status string

const (
	StatusDraft    Status = "draft"
	StatusComplete Status = "complete"
)

type Exhibition struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Title     string         `db:"title"`
	StartDate *time.Time     `db:"start_date"`
	EndDate   *time.Time     `db:"end_date"`
	Location  string         `db:"location"`
	Priority  int            `db:"priority"`
	ImageURLs pq.StringArray `db:"image_urls"`
	Status    Status         `db:"status"`
	model.Metadata
}

// Exportable reports whether every field a calendar export reads is present.
func (e Exhibition) Exportable() bool {
	return e.Status == StatusComplete &&
		e.Title != "" &&
		e.Location != "" &&
		e.StartDate != nil &&
		e.EndDate != nil
}
