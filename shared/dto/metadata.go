package dto

import (
	"expo/shared/constant"
	"expo/shared/model"
	"expo/shared/timezone"
)

// Metadata renders the audit block in the application time zone. The
// modified pair is left out until the row has been edited.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedAt string `json:"modified_at,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func (m *Metadata) FromModel(src model.Metadata) {
	m.CreatedAt = timezone.Format(src.CreatedAt, constant.DateFormat)
	m.CreatedBy = src.CreatedBy

	if src.ModifiedAt.After(src.CreatedAt) {
		m.ModifiedAt = timezone.Format(src.ModifiedAt, constant.DateFormat)
		m.ModifiedBy = src.ModifiedBy
	}
}
