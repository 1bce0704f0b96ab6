package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"expo/config"
	"expo/infras/otel/mocks"
	"expo/internal/domains/exhibition/event"
	exhibitionMocks "expo/internal/domains/exhibition/mocks"
	"expo/internal/domains/exhibition/model"
	gDto "expo/shared/dto"
)

func day(year int, month time.Month, d int) *time.Time {
	t := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)

	return &t
}

func newTestReminder(t *testing.T, now time.Time) (*reminderImpl, *exhibitionMocks.MockExhibition, *exhibitionMocks.MockPublisher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := exhibitionMocks.NewMockExhibition(ctrl)
	publisher := exhibitionMocks.NewMockPublisher(ctrl)

	r, ok := New(repo, &config.Config{}, mocks.NewOtel(), publisher).(*reminderImpl)
	require.True(t, ok)

	r.now = func() time.Time { return now }

	return r, repo, publisher
}

func TestRun(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

	closing := model.Exhibition{ID: "closing", UserID: "u1", Title: "Closing Soon", EndDate: day(2024, time.March, 13), Status: model.StatusComplete}
	today := model.Exhibition{ID: "today", UserID: "u2", Title: "Last Day", EndDate: day(2024, time.March, 10), Status: model.StatusComplete}
	later := model.Exhibition{ID: "later", UserID: "u1", Title: "Next Month", EndDate: day(2024, time.April, 20), Status: model.StatusComplete}
	undated := model.Exhibition{ID: "undated", UserID: "u1", Status: model.StatusComplete}

	tests := []struct {
		name      string
		setupMock func(repo *exhibitionMocks.MockExhibition, publisher *exhibitionMocks.MockPublisher)
		wantSent  int
		wantErr   bool
	}{
		{
			name: "publishes one reminder per urgent exhibition",
			setupMock: func(repo *exhibitionMocks.MockExhibition, publisher *exhibitionMocks.MockPublisher) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Exhibition, error) {
						_, args := filter.GetWhereClause()
						assert.Equal(t, *day(2024, time.March, 10), args[argWindow+"_from"])
						assert.Equal(t, *day(2024, time.March, 17), args[argWindow+"_to"])

						return []model.Exhibition{today, closing, later, undated}, nil
					})

				publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, payloads ...event.Payload) error {
						require.Len(t, payloads, 2)
						assert.Equal(t, event.TypeReminder, payloads[0].Type)
						assert.Equal(t, "today", payloads[0].ExhibitionID)
						assert.Equal(t, 0, *payloads[0].DaysRemaining)
						assert.Equal(t, "closing", payloads[1].ExhibitionID)
						assert.Equal(t, 3, *payloads[1].DaysRemaining)

						return nil
					})
			},
			wantSent: 2,
		},
		{
			name: "nothing closing publishes nothing",
			setupMock: func(repo *exhibitionMocks.MockExhibition, _ *exhibitionMocks.MockPublisher) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Exhibition{later}, nil)
			},
		},
		{
			name: "repository error",
			setupMock: func(repo *exhibitionMocks.MockExhibition, _ *exhibitionMocks.MockPublisher) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
		{
			name: "publish error",
			setupMock: func(repo *exhibitionMocks.MockExhibition, publisher *exhibitionMocks.MockPublisher) {
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Exhibition{closing}, nil)
				publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, repo, publisher := newTestReminder(t, now)
			tt.setupMock(repo, publisher)

			sent, err := r.Run(context.Background())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSent, sent)
		})
	}
}

func TestStart(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		r, _, _ := newTestReminder(t, time.Now())

		require.NoError(t, r.Start())
		assert.Empty(t, r.cron.Entries())
	})

	t.Run("invalid schedule", func(t *testing.T) {
		r, _, _ := newTestReminder(t, time.Now())
		r.cfg.Reminder.Enable = true
		r.cfg.Reminder.Cron = "every now and then"

		assert.Error(t, r.Start())
	})

	t.Run("default schedule", func(t *testing.T) {
		r, _, _ := newTestReminder(t, time.Now())
		r.cfg.Reminder.Enable = true

		require.NoError(t, r.Start())
		assert.Len(t, r.cron.Entries(), 1)
		assert.NoError(t, r.Stop(context.Background()))
	})
}
