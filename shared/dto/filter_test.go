package dto_test

import (
	"expo/shared/dto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilter_GetWhereClause(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "user_id", Value: "u1", Operator: dto.FilterOperatorEq, Table: "exhibitions"},
			wantWhere: "exhibitions.user_id = :user_id",
			wantArgs:  map[string]any{"user_id": "u1"},
		},
		{
			name:      "like escapes wildcards",
			filter:    dto.Filter{Field: "title", Value: "100%_off", Operator: dto.FilterOperatorLike},
			wantWhere: "LOWER(title) LIKE LOWER(:title) ",
			wantArgs:  map[string]any{"title": `%100\%\_off%`},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "status", Value: []string{"draft", "complete"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1) ",
			wantArgs:  map[string]any{"status_0": "draft", "status_1": "complete"},
		},
		{
			name:      "in with scalar is bound",
			filter:    dto.Filter{Field: "status", Value: "draft", Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status) ",
			wantArgs:  map[string]any{"status": "draft"},
		},
		{
			name:      "between uses named bounds",
			filter:    dto.Filter{ArgName: "window", Field: "end_date", Value: [2]time.Time{from, to}, Operator: dto.FilterOperatorBetween, Table: "exhibitions"},
			wantWhere: "exhibitions.end_date BETWEEN :window_from AND :window_to",
			wantArgs:  map[string]any{"window_from": from, "window_to": to},
		},
		{
			name:      "between with wrong arity is ignored",
			filter:    dto.Filter{Field: "end_date", Value: []time.Time{from}, Operator: dto.FilterOperatorBetween},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "end_date", Operator: dto.FilterIsNull},
			wantWhere: "end_date IS NULL",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "user_id", Value: "u1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "end_date", Operator: dto.FilterIsNull},
					dto.Filter{Field: "status", Value: "draft", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(user_id = :user_id AND (end_date IS NULL OR status = :status))", where)
	assert.Equal(t, map[string]any{"user_id": "u1", "status": "draft"}, args)

	empty := dto.FilterGroup{}
	where, _ = empty.GetWhereClause()
	assert.Empty(t, where)
}
