package exhibition_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"expo/infras/otel/mocks"
	"expo/internal/domains/exhibition/model"
	"expo/internal/domains/exhibition/model/dto"
	serviceMocks "expo/internal/domains/exhibition/service/mocks"
	"expo/internal/handlers/exhibition"
	"expo/shared/failure"
)

func newRouter(t *testing.T) (http.Handler, *serviceMocks.MockExhibition) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := serviceMocks.NewMockExhibition(ctrl)

	handler := exhibition.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return router, svc
}

func TestDownloadCalendar(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Calendar(gomock.Any(), "abc").Return(dto.CalendarFile{
		FileName: "Monet.ics",
		Content:  []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/exhibitions/abc/calendar.ics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=Monet.ics", rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "BEGIN:VCALENDAR"))
}

func TestDownloadCalendar_NonASCIITitle(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Calendar(gomock.Any(), "abc").Return(dto.CalendarFile{FileName: "モネ展.ics", Content: []byte("x")}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/exhibitions/abc/calendar.ics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "filename*=utf-8''")
}

func TestStatusRouting(t *testing.T) {
	body := `{"title":"Monet","image_urls":["https://example.com/a.jpg"]}`

	tests := []struct {
		name      string
		method    string
		path      string
		setupMock func(svc *serviceMocks.MockExhibition)
		wantCode  int
	}{
		{
			name:   "draft endpoint saves a draft",
			method: http.MethodPost,
			path:   "/v1/exhibitions/drafts",
			setupMock: func(svc *serviceMocks.MockExhibition) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any(), model.StatusDraft).Return(dto.SaveExhibitionResponse{}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:   "submit endpoint saves a complete record",
			method: http.MethodPost,
			path:   "/v1/exhibitions",
			setupMock: func(svc *serviceMocks.MockExhibition) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any(), model.StatusComplete).Return(dto.SaveExhibitionResponse{}, dto.ErrIncompleteRecord)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "draft resubmit of a complete record conflicts",
			method: http.MethodPut,
			path:   "/v1/exhibitions/abc/draft",
			setupMock: func(svc *serviceMocks.MockExhibition) {
				svc.EXPECT().Resubmit(gomock.Any(), "abc", gomock.Any(), model.StatusDraft).Return(dto.SaveExhibitionResponse{}, dto.ErrIllegalDowngrade)
			},
			wantCode: http.StatusConflict,
		},
		{
			name:   "unknown record",
			method: http.MethodPut,
			path:   "/v1/exhibitions/abc",
			setupMock: func(svc *serviceMocks.MockExhibition) {
				svc.EXPECT().Resubmit(gomock.Any(), "abc", gomock.Any(), model.StatusComplete).Return(dto.SaveExhibitionResponse{}, failure.NotFound("exhibition not found"))
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.setupMock(svc)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(body)))

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestUploadImages_RequiresFiles(t *testing.T) {
	router, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/exhibitions/images", strings.NewReader("--x--\r\n"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
