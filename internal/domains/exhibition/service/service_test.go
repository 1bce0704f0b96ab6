package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"expo/config"
	"expo/infras/otel/mocks"
	s3Mocks "expo/infras/s3/mocks"
	exhibitionMocks "expo/internal/domains/exhibition/mocks"
	"expo/internal/domains/exhibition/model"
	"expo/internal/domains/exhibition/model/dto"
	"expo/internal/domains/exhibition/service"
	cacheMocks "expo/shared/cache/mocks"
	"expo/shared/constant"
	gDto "expo/shared/dto"
	"expo/shared/failure"
	gModel "expo/shared/model"
	"expo/shared/timezone"
)

const (
	userID       = "test-user-id"
	exhibitionID = "0b6f1c7e-8a2d-4f53-9c39-2d7f0a4b1e11"
)

type fixture struct {
	repo      *exhibitionMocks.MockExhibition
	cache     *cacheMocks.MockRedisCache
	s3        *s3Mocks.MockS3
	publisher *exhibitionMocks.MockPublisher
	svc       service.Exhibition
}

// newStrictFixture leaves every cache, publisher and bucket call unexpected.
func newStrictFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.App.Locale = "en"
	cfg.App.Calendar.ServiceHost = "calendar.google.com/calendar"
	cfg.App.Calendar.MapHost = "www.google.com/maps"
	cfg.App.Calendar.ProductID = "-//Exhibition Gallery//JP"
	cfg.App.Calendar.UIDDomain = "exhibitiongallery.app"

	f := fixture{
		repo:      exhibitionMocks.NewMockExhibition(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
		s3:        s3Mocks.NewMockS3(ctrl),
		publisher: exhibitionMocks.NewMockPublisher(ctrl),
	}

	f.svc = service.New(f.repo, cfg, f.cache, mocks.NewOtel(), f.s3, f.publisher)

	return f
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	f := newStrictFixture(t)

	// side effects run in goroutines and may or may not land before the test ends
	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.s3.EXPECT().ObjectKeyFromURL(gomock.Any()).Return("").AnyTimes()

	return f
}

func userCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, userID)
}

func date(offsetDays int) *time.Time {
	now := timezone.Now()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offsetDays)

	return &d
}

func completeRecord() model.Exhibition {
	return model.Exhibition{
		ID:        exhibitionID,
		UserID:    userID,
		Title:     "Monet Retrospective",
		StartDate: date(-2),
		EndDate:   date(5),
		Location:  "Tokyo National Museum",
		Priority:  4,
		ImageURLs: []string{"https://example.com/a.jpg"},
		Status:    model.StatusComplete,
		Metadata:  gModel.Metadata{CreatedBy: userID, ModifiedBy: userID},
	}
}

func completeForm() dto.Form {
	return dto.Form{
		Title:     "Monet Retrospective",
		StartDate: "2024-03-10",
		EndDate:   "2024-03-12",
		Location:  "Tokyo National Museum",
		Priority:  4,
		ImageURLs: []string{"https://example.com/a.jpg"},
	}
}

func assertCode(t *testing.T, err error, code int) {
	t.Helper()

	var fail *failure.Failure

	require.ErrorAs(t, err, &fail)
	assert.Equal(t, code, fail.Code)
}

func TestExhibitionService_MissingUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(context.Background())

	assertCode(t, err, http.StatusUnauthorized)
}

func TestExhibitionService_List(t *testing.T) {
	draft := model.Exhibition{
		ID:        "draft-id",
		UserID:    userID,
		ImageURLs: []string{"https://example.com/d.jpg"},
		Status:    model.StatusDraft,
	}
	later := completeRecord()
	later.ID = "later-id"
	later.EndDate = date(20)
	sooner := completeRecord()

	tests := []struct {
		name         string
		setupMock    func(f fixture)
		wantErr      bool
		wantDrafts   int
		wantComplete []string
	}{
		{
			name: "cache miss loads from repository and sorts by days remaining",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), "exhibition:test-user-id:list", gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Exhibition{draft, later, sooner}, nil)
			},
			wantDrafts:   1,
			wantComplete: []string{sooner.ID, later.ID},
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
		{
			name: "empty store yields empty sections",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantComplete: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.List(userCtx())

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Len(t, res.Drafts, tt.wantDrafts)

			ids := make([]string, 0, len(res.Complete))
			for _, card := range res.Complete {
				ids = append(ids, card.ID)
			}

			assert.Equal(t, tt.wantComplete, ids)
		})
	}
}

func TestExhibitionService_Get(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		setupMock func(f fixture)
		wantCode  int
		wantDays  int
	}{
		{
			name: "found",
			id:   exhibitionID,
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completeRecord(), nil)
			},
			wantDays: 5,
		},
		{
			name: "owned by someone else",
			id:   exhibitionID,
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Exhibition{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:      "malformed id",
			id:        "not-a-uuid",
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(userCtx(), tt.id)

			if tt.wantCode != 0 {
				assertCode(t, err, tt.wantCode)

				return
			}

			require.NoError(t, err)
			require.NotNil(t, res.DaysRemaining)
			assert.Equal(t, tt.wantDays, *res.DaysRemaining)
			require.NotNil(t, res.Urgency)
			assert.Equal(t, "5 days left", res.Urgency.Label)
			assert.NotNil(t, res.Links)
		})
	}
}

func TestExhibitionService_GetForm(t *testing.T) {
	f := newFixture(t)

	record := completeRecord()
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(record, nil)

	form, err := f.svc.GetForm(userCtx(), exhibitionID)

	require.NoError(t, err)
	assert.Equal(t, record.Title, form.Title)
	assert.Equal(t, record.EndDate.Format(constant.CalendarLayout), form.EndDate)
	assert.Equal(t, []string{"https://example.com/a.jpg"}, form.ImageURLs)
}

func TestExhibitionService_Create(t *testing.T) {
	tests := []struct {
		name      string
		form      dto.Form
		status    model.Status
		setupMock func(f fixture)
		wantCode  int
		wantErr   bool
	}{
		{
			name:   "complete record",
			form:   completeForm(),
			status: model.StatusComplete,
			setupMock: func(f fixture) {
				f.s3.EXPECT().Enabled().Return(false)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m model.Exhibition) error {
					assert.Equal(t, userID, m.UserID)
					assert.Equal(t, model.StatusComplete, m.Status)

					return nil
				})
			},
		},
		{
			name:   "draft with only an image",
			form:   dto.Form{ImageURLs: []string{"https://example.com/a.jpg"}},
			status: model.StatusDraft,
			setupMock: func(f fixture) {
				f.s3.EXPECT().Enabled().Return(false)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:      "draft without image",
			form:      dto.Form{Title: "Untitled"},
			status:    model.StatusDraft,
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "complete missing location",
			form:      dto.Form{Title: "A", StartDate: "2024-03-10", EndDate: "2024-03-12", ImageURLs: []string{"https://example.com/a.jpg"}},
			status:    model.StatusComplete,
			setupMock: func(_ fixture) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "inline image is stored in the bucket",
			form:   dto.Form{ImageURLs: []string{"https://example.com/a.jpg", "data:image/png;base64,aGVsbG8="}},
			status: model.StatusDraft,
			setupMock: func(f fixture) {
				f.s3.EXPECT().Enabled().Return(true)
				f.s3.EXPECT().Upload(gomock.Any(), "exhibitions/test-user-id", gomock.Any(), "image/png", []byte("hello")).
					Return("https://img.example.com/exhibitions/test-user-id/x.png", nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m model.Exhibition) error {
					assert.Equal(t, []string{"https://example.com/a.jpg", "https://img.example.com/exhibitions/test-user-id/x.png"}, []string(m.ImageURLs))

					return nil
				})
			},
		},
		{
			name:   "repository error",
			form:   completeForm(),
			status: model.StatusComplete,
			setupMock: func(f fixture) {
				f.s3.EXPECT().Enabled().Return(false)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(userCtx(), tt.form, tt.status)

			time.Sleep(10 * time.Millisecond)

			switch {
			case tt.wantCode != 0:
				assertCode(t, err, tt.wantCode)
			case tt.wantErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, res.ID)
				assert.Equal(t, tt.status, res.Status)
				assert.NotZero(t, res.Form.Priority)
			}
		})
	}
}

func TestExhibitionService_CreateClearsCacheBeforeReturning(t *testing.T) {
	f := newStrictFixture(t)

	var cleared atomic.Bool

	f.s3.EXPECT().Enabled().Return(false)
	f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	f.cache.EXPECT().Clear(gomock.Any(), "exhibition:test-user-id*").DoAndReturn(func(context.Context, string) error {
		cleared.Store(true)

		return nil
	})
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	_, err := f.svc.Create(userCtx(), completeForm(), model.StatusComplete)

	require.NoError(t, err)
	assert.True(t, cleared.Load())
}

func TestExhibitionService_FailedWriteRemovesStoredImages(t *testing.T) {
	const (
		storedURL = "https://img.example.com/exhibitions/test-user-id/x.png"
		storedKey = "exhibitions/test-user-id/x.png"
	)

	form := dto.Form{ImageURLs: []string{"https://example.com/a.jpg", "data:image/png;base64,aGVsbG8="}}

	tests := []struct {
		name      string
		setupMock func(f fixture)
		save      func(svc service.Exhibition) error
	}{
		{
			name: "insert fails",
			setupMock: func(f fixture) {
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			save: func(svc service.Exhibition) error {
				_, err := svc.Create(userCtx(), form, model.StatusDraft)

				return err
			},
		},
		{
			name: "update fails",
			setupMock: func(f fixture) {
				draft := completeRecord()
				draft.Status = model.StatusDraft

				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(draft, nil)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			save: func(svc service.Exhibition) error {
				_, err := svc.Resubmit(userCtx(), exhibitionID, form, model.StatusDraft)

				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStrictFixture(t)
			tt.setupMock(f)

			f.s3.EXPECT().Enabled().Return(true)
			f.s3.EXPECT().Upload(gomock.Any(), "exhibitions/test-user-id", gomock.Any(), "image/png", []byte("hello")).
				Return(storedURL, nil)
			f.s3.EXPECT().ObjectKeyFromURL(storedURL).Return(storedKey)
			f.s3.EXPECT().Delete(gomock.Any(), storedKey).Return(nil)

			err := tt.save(f.svc)

			require.Error(t, err)
		})
	}
}

func TestExhibitionService_Resubmit(t *testing.T) {
	draft := completeRecord()
	draft.Status = model.StatusDraft

	tests := []struct {
		name      string
		status    model.Status
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name:   "promote draft to complete",
			status: model.StatusComplete,
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(draft, nil)
				f.s3.EXPECT().Enabled().Return(false)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, model.StatusComplete, fields[model.FieldStatus])

						return nil
					})
			},
		},
		{
			name:   "complete may be saved again as complete",
			status: model.StatusComplete,
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completeRecord(), nil)
				f.s3.EXPECT().Enabled().Return(false)
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "complete cannot go back to draft",
			status: model.StatusDraft,
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completeRecord(), nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "unknown record",
			status: model.StatusComplete,
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Exhibition{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Resubmit(userCtx(), exhibitionID, completeForm(), tt.status)

			time.Sleep(10 * time.Millisecond)

			if tt.wantCode != 0 {
				assertCode(t, err, tt.wantCode)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, exhibitionID, res.ID)
			assert.Equal(t, tt.status, res.Status)
		})
	}
}

func TestExhibitionService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantErr   bool
	}{
		{
			name: "success",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completeRecord(), nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completeRecord(), nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(userCtx(), exhibitionID)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExhibitionService_Calendar(t *testing.T) {
	t.Run("complete record renders ics", func(t *testing.T) {
		f := newFixture(t)
		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completeRecord(), nil)

		file, err := f.svc.Calendar(userCtx(), exhibitionID)

		require.NoError(t, err)
		assert.Equal(t, "Monet Retrospective.ics", file.FileName)

		body := string(file.Content)
		assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
		assert.Contains(t, body, "UID:"+exhibitionID+"@exhibitiongallery.app")
		assert.Contains(t, body, "SUMMARY:Monet Retrospective")
	})

	t.Run("draft cannot be exported", func(t *testing.T) {
		f := newFixture(t)

		record := completeRecord()
		record.Status = model.StatusDraft

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(record, nil)

		_, err := f.svc.Calendar(userCtx(), exhibitionID)

		assertCode(t, err, http.StatusBadRequest)
	})
}

func TestExhibitionService_Links(t *testing.T) {
	f := newFixture(t)
	f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(completeRecord(), nil)

	links, err := f.svc.Links(userCtx(), exhibitionID)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(links.CalendarURL, "https://calendar.google.com/calendar/render?action=TEMPLATE&text=Monet%20Retrospective"))
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=Tokyo%20National%20Museum", links.MapURL)
	assert.Equal(t, "/v1/exhibitions/"+exhibitionID+"/calendar.ics", links.ICSURL)
}

func fileHeaders(t *testing.T, names ...string) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer

	writer := multipart.NewWriter(&body)

	for _, name := range names {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		header.Set("Content-Type", "image/png")

		part, err := writer.CreatePart(header)
		require.NoError(t, err)

		_, err = part.Write([]byte(name))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(constant.RequestMaxMemory)
	require.NoError(t, err)

	return form.File[constant.FormFiles]
}

func TestExhibitionService_UploadImages(t *testing.T) {
	t.Run("urls keep request order", func(t *testing.T) {
		f := newFixture(t)

		f.s3.EXPECT().Upload(gomock.Any(), "exhibitions/test-user-id", gomock.Any(), "image/png", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, _ string, data []byte) (string, error) {
				// finish out of order
				if string(data) == "first.png" {
					time.Sleep(20 * time.Millisecond)
				}

				return "https://img.example.com/" + string(data), nil
			}).
			Times(3)

		res, err := f.svc.UploadImages(userCtx(), dto.UploadImagesRequest{Images: fileHeaders(t, "first.png", "second.png", "third.png")})

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://img.example.com/first.png",
			"https://img.example.com/second.png",
			"https://img.example.com/third.png",
		}, res.URLs)
	})

	t.Run("one failure fails the batch", func(t *testing.T) {
		f := newFixture(t)

		f.s3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, _ string, data []byte) (string, error) {
				if string(data) == "bad.png" {
					return "", errors.New("bucket unavailable")
				}

				return "https://img.example.com/" + string(data), nil
			}).
			AnyTimes()
		f.s3.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := f.svc.UploadImages(userCtx(), dto.UploadImagesRequest{Images: fileHeaders(t, "good.png", "bad.png")})

		time.Sleep(10 * time.Millisecond)

		assertCode(t, err, http.StatusBadGateway)
		assert.Empty(t, res.URLs)
	})
}
