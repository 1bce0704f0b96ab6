package model

import (
	"expo/shared/constant"
	"time"
)

// Metadata is the audit block carried by every table.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}

// NewMetadata stamps a new row. The modified pair starts equal to the created pair.
func NewMetadata(actor string, at time.Time) Metadata {
	return Metadata{
		CreatedAt:  at,
		ModifiedAt: at,
		CreatedBy:  actor,
		ModifiedBy: actor,
	}
}

// Touch adds the modified columns to an update set.
func Touch(fields map[string]any, actor string, at time.Time) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}

	fields[constant.FieldModifiedAt] = at
	fields[constant.FieldModifiedBy] = actor

	return fields
}
