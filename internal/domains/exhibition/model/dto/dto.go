package dto

import (
	"expo/internal/domains/exhibition/export"
	"expo/internal/domains/exhibition/model"
	"expo/internal/domains/exhibition/schedule"
	"expo/shared/constant"
	gDto "expo/shared/dto"
	"expo/shared/failure"
	gModel "expo/shared/model"
	"expo/shared/validator"
	"fmt"
	"mime/multipart"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	thumbnailLimit = 4
	icsPathFormat  = "/v1/exhibitions/%s/calendar.ics"
)

var (
	ErrImageRequired    = failure.BadRequestFromString("at least one image is required")
	ErrIncompleteRecord = failure.BadRequestFromString("title, start_date, end_date, location and at least one image are required")
	ErrNotExportable    = failure.BadRequestFromString("only complete exhibitions can be exported")
	ErrIllegalDowngrade = failure.Conflict("a complete exhibition cannot be saved as draft")
)

// Form is the editing session of one exhibition. It is created empty for a new
// record or from FormFromModel for an existing one, and is replaced as a whole
// on every save.
type Form struct {
	Title     string   `json:"title"      validate:"max=200"`
	StartDate string   `json:"start_date" validate:"calendardate"  example:"2024-03-10"`
	EndDate   string   `json:"end_date"   validate:"calendardate"  example:"2024-03-12"`
	Location  string   `json:"location"   validate:"max=500"`
	Priority  int      `json:"priority"   validate:"omitempty,gte=1,lte=5" example:"3"`
	ImageURLs []string `json:"image_urls" validate:"dive,imageref"`
}

// Normalize fills the default priority of an untouched form.
func (f *Form) Normalize() {
	if f.Priority == 0 {
		f.Priority = model.PriorityDefault
	}

	if f.ImageURLs == nil {
		f.ImageURLs = []string{}
	}
}

func (f *Form) validateShape() error {
	f.Normalize()

	return validator.ValidateStruct(f) //nolint:wrapcheck
}

// ValidateDraft accepts any field set as long as one image is attached.
func (f *Form) ValidateDraft() error {
	if err := f.validateShape(); err != nil {
		return err
	}

	if len(f.ImageURLs) == 0 {
		return ErrImageRequired
	}

	return nil
}

// ValidateComplete requires title, both dates, location and an image.
func (f *Form) ValidateComplete() error {
	if err := f.validateShape(); err != nil {
		return err
	}

	if f.Title == "" || f.StartDate == "" || f.EndDate == "" || f.Location == "" || len(f.ImageURLs) == 0 {
		return ErrIncompleteRecord
	}

	return nil
}

// Validate runs the gate matching the requested status.
func (f *Form) Validate(status model.Status) error {
	if status == model.StatusComplete {
		return f.ValidateComplete()
	}

	return f.ValidateDraft()
}

func parseOptionalDate(value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil //nolint:nilnil
	}

	date, err := schedule.ParseDate(value, loc)
	if err != nil {
		return nil, failure.BadRequest(err) //nolint:wrapcheck
	}

	return &date, nil
}

// ToModel builds a new record owned by userID.
func (f *Form) ToModel(userID string, status model.Status, now time.Time) (model.Exhibition, error) {
	start, err := parseOptionalDate(f.StartDate, time.UTC)
	if err != nil {
		return model.Exhibition{}, err
	}

	end, err := parseOptionalDate(f.EndDate, time.UTC)
	if err != nil {
		return model.Exhibition{}, err
	}

	return model.Exhibition{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     f.Title,
		StartDate: start,
		EndDate:   end,
		Location:  f.Location,
		Priority:  f.Priority,
		ImageURLs: slices.Clone(f.ImageURLs),
		Status:    status,
		Metadata:  gModel.NewMetadata(userID, now),
	}, nil
}

// ToUpdateFields replaces every editable column, including empty ones.
func (f *Form) ToUpdateFields(userID string, status model.Status, now time.Time) (map[string]any, error) {
	start, err := parseOptionalDate(f.StartDate, time.UTC)
	if err != nil {
		return nil, err
	}

	end, err := parseOptionalDate(f.EndDate, time.UTC)
	if err != nil {
		return nil, err
	}

	return gModel.Touch(map[string]any{
		model.FieldTitle:     f.Title,
		model.FieldStartDate: start,
		model.FieldEndDate:   end,
		model.FieldLocation:  f.Location,
		model.FieldPriority:  f.Priority,
		model.FieldImageURLs: pq.StringArray(slices.Clone(f.ImageURLs)),
		model.FieldStatus:    status,
	}, userID, now), nil
}

func formatDate(date *time.Time) string {
	if date == nil {
		return ""
	}

	return date.Format(constant.CalendarLayout)
}

// FormFromModel pre-populates an editing session from a stored record.
func FormFromModel(m model.Exhibition) Form {
	form := Form{
		Title:     m.Title,
		StartDate: formatDate(m.StartDate),
		EndDate:   formatDate(m.EndDate),
		Location:  m.Location,
		Priority:  m.Priority,
		ImageURLs: slices.Clone([]string(m.ImageURLs)),
	}
	form.Normalize()

	return form
}

// CheckTransition guards the session state machine. Drafts may be promoted,
// complete records may be resubmitted, but never demoted.
func CheckTransition(current, target model.Status) error {
	if current == model.StatusComplete && target == model.StatusDraft {
		return ErrIllegalDowngrade
	}

	return nil
}

// ToExportEvent converts a complete record for the calendar encoders.
func ToExportEvent(m model.Exhibition) (export.Event, error) {
	if !m.Exportable() {
		return export.Event{}, ErrNotExportable
	}

	return export.Event{
		ID:       m.ID,
		Title:    m.Title,
		Location: m.Location,
		Start:    *m.StartDate,
		End:      *m.EndDate,
	}, nil
}

// CardOptions carries what a card needs beyond the record itself.
type CardOptions struct {
	Now          time.Time
	Locale       schedule.Locale
	CalendarHost string
	MapHost      string
}

type Thumbnails struct {
	Preview  []string `json:"preview"`
	Overflow int      `json:"overflow"`
}

func NewThumbnails(images []string) Thumbnails {
	if len(images) <= thumbnailLimit {
		return Thumbnails{Preview: slices.Clone(images)}
	}

	return Thumbnails{
		Preview:  slices.Clone(images[:thumbnailLimit]),
		Overflow: len(images) - thumbnailLimit,
	}
}

type LinksResponse struct {
	CalendarURL string `json:"calendar_url"`
	MapURL      string `json:"map_url"`
	ICSURL      string `json:"ics_url"`
}

func (l *LinksResponse) FromEvent(ev export.Event, opts CardOptions) {
	l.CalendarURL = export.CalendarURL(ev, opts.CalendarHost)
	l.MapURL = export.MapURL(ev.Location, opts.MapHost)
	l.ICSURL = fmt.Sprintf(icsPathFormat, ev.ID)
}

type ExhibitionResponse struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	StartDate     string            `json:"start_date"`
	EndDate       string            `json:"end_date"`
	Location      string            `json:"location"`
	Priority      int               `json:"priority"`
	ImageURLs     []string          `json:"image_urls"`
	Status        model.Status      `json:"status"`
	DaysRemaining *int              `json:"days_remaining,omitempty"`
	Urgency       *schedule.Urgency `json:"urgency,omitempty"`
	Progress      *float64          `json:"progress,omitempty"`
	Thumbnails    Thumbnails        `json:"thumbnails"`
	Links         *LinksResponse    `json:"links,omitempty"`
	gDto.Metadata
}

func (r *ExhibitionResponse) FromModel(m model.Exhibition, opts CardOptions) {
	r.ID = m.ID
	r.Title = m.Title
	r.StartDate = formatDate(m.StartDate)
	r.EndDate = formatDate(m.EndDate)
	r.Location = m.Location
	r.Priority = m.Priority
	r.ImageURLs = slices.Clone([]string(m.ImageURLs))
	r.Status = m.Status
	r.Thumbnails = NewThumbnails(m.ImageURLs)
	r.Metadata.FromModel(m.Metadata)

	if r.ImageURLs == nil {
		r.ImageURLs = []string{}
	}

	if m.EndDate != nil {
		days := schedule.DaysRemaining(*m.EndDate, opts.Now)
		urgency := schedule.Classify(days, opts.Locale)

		r.DaysRemaining = &days
		r.Urgency = &urgency
	}

	if m.StartDate != nil && m.EndDate != nil {
		progress := schedule.Progress(*m.StartDate, *m.EndDate, opts.Now)
		r.Progress = &progress
	}

	if ev, err := ToExportEvent(m); err == nil {
		r.Links = &LinksResponse{}
		r.Links.FromEvent(ev, opts)
	}
}

type ListExhibitionsResponse struct {
	Drafts   []ExhibitionResponse `json:"drafts"`
	Complete []ExhibitionResponse `json:"complete"`
}

// FromModels splits records by status. Drafts keep store order, complete
// records are ordered by days remaining with undated ones last.
func (r *ListExhibitionsResponse) FromModels(models []model.Exhibition, opts CardOptions) {
	r.Drafts = []ExhibitionResponse{}
	r.Complete = []ExhibitionResponse{}

	for _, m := range models {
		var card ExhibitionResponse
		card.FromModel(m, opts)

		if m.Status == model.StatusComplete {
			r.Complete = append(r.Complete, card)
		} else {
			r.Drafts = append(r.Drafts, card)
		}
	}

	slices.SortStableFunc(r.Complete, func(a, b ExhibitionResponse) int {
		switch {
		case a.DaysRemaining == nil && b.DaysRemaining == nil:
			return 0
		case a.DaysRemaining == nil:
			return 1
		case b.DaysRemaining == nil:
			return -1
		default:
			return *a.DaysRemaining - *b.DaysRemaining
		}
	})
}

type SaveExhibitionResponse struct {
	ExhibitionResponse
	Form Form `json:"form"`
}

type UploadImagesRequest struct {
	Images []*multipart.FileHeader `json:"images" swaggerignore:"true" validate:"required,min=1,max=20,dive,required,mimetypes=image/png image/jpg image/jpeg image/webp image/gif,maxfilesize=10"`
}

type UploadImagesResponse struct {
	URLs []string `json:"urls"`
}

// NextImageIndex and PrevImageIndex step through an image viewer, wrapping
// at both ends. A zero count yields zero.
func NextImageIndex(current, count int) int {
	if count <= 0 {
		return 0
	}

	return ((current+1)%count + count) % count
}

func PrevImageIndex(current, count int) int {
	if count <= 0 {
		return 0
	}

	return ((current-1)%count + count) % count
}

// CalendarFile is a rendered .ics attachment.
type CalendarFile struct {
	FileName string
	Content  []byte
}
