package exhibition

import (
	"errors"
	"expo/infras/otel"
	"expo/internal/domains/exhibition/model"
	"expo/internal/domains/exhibition/model/dto"
	"expo/internal/domains/exhibition/service"
	"expo/shared/constant"
	"expo/shared/failure"
	"expo/shared/validator"
	"expo/transport/http/response"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Exhibition
	otel    otel.Otel
}

func New(service service.Exhibition, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/exhibitions", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.ListExhibitions)
		routerGroup.Post("/", handler.SubmitExhibition)
		routerGroup.Post("/drafts", handler.SaveDraft)
		routerGroup.Post("/images", handler.UploadImages)
		routerGroup.Get("/{id}", handler.GetExhibition)
		routerGroup.Put("/{id}", handler.ResubmitExhibition)
		routerGroup.Put("/{id}/draft", handler.ResubmitDraft)
		routerGroup.Delete("/{id}", handler.DeleteExhibition)
		routerGroup.Get("/{id}/form", handler.GetForm)
		routerGroup.Get("/{id}/links", handler.GetLinks)
		routerGroup.Get("/{id}/calendar.ics", handler.DownloadCalendar)
	})
}

// ListExhibitions returns the drafts and complete records of the current user.
// @Summary List exhibitions
// @Description Drafts keep store order; complete records are sorted by days remaining.
// @Tags Exhibition
// @Produce json
// @Success 200 {object} dto.ListExhibitionsResponse
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions [get]
// @Security BearerAuth
func (handler *Handler) ListExhibitions(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListExhibitions")
	defer scope.End()

	res, err := handler.service.List(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list exhibitions")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// SubmitExhibition stores a new complete exhibition.
// @Summary Submit a new exhibition
// @Description Requires title, both dates, location and at least one image.
// @Tags Exhibition
// @Accept json
// @Produce json
// @Param request body dto.Form true "Exhibition form"
// @Success 201 {object} dto.SaveExhibitionResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions [post]
// @Security BearerAuth
func (handler *Handler) SubmitExhibition(writer http.ResponseWriter, request *http.Request) {
	handler.create(writer, request, model.StatusComplete)
}

// SaveDraft stores a new draft.
// @Summary Save a new draft
// @Description Any field may be empty, but at least one image is required.
// @Tags Exhibition
// @Accept json
// @Produce json
// @Param request body dto.Form true "Exhibition form"
// @Success 201 {object} dto.SaveExhibitionResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions/drafts [post]
// @Security BearerAuth
func (handler *Handler) SaveDraft(writer http.ResponseWriter, request *http.Request) {
	handler.create(writer, request, model.StatusDraft)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request, status model.Status) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateExhibition")
	defer scope.End()

	form := dto.Form{}

	if err := validator.Validate(request.Body, &form); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, form, status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create exhibition")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Exhibition saved as " + string(status))

	response.WithJSON(writer, http.StatusCreated, res)
}

// ResubmitExhibition replaces an existing record and marks it complete.
// @Summary Resubmit an exhibition
// @Description Replaces every field of the record; drafts are promoted.
// @Tags Exhibition
// @Accept json
// @Produce json
// @Param id path string true "Exhibition ID"
// @Param request body dto.Form true "Exhibition form"
// @Success 200 {object} dto.SaveExhibitionResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions/{id} [put]
// @Security BearerAuth
func (handler *Handler) ResubmitExhibition(writer http.ResponseWriter, request *http.Request) {
	handler.resubmit(writer, request, model.StatusComplete)
}

// ResubmitDraft replaces an existing draft.
// @Summary Resubmit a draft
// @Description Complete records cannot be saved back as drafts.
// @Tags Exhibition
// @Accept json
// @Produce json
// @Param id path string true "Exhibition ID"
// @Param request body dto.Form true "Exhibition form"
// @Success 200 {object} dto.SaveExhibitionResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions/{id}/draft [put]
// @Security BearerAuth
func (handler *Handler) ResubmitDraft(writer http.ResponseWriter, request *http.Request) {
	handler.resubmit(writer, request, model.StatusDraft)
}

func (handler *Handler) resubmit(writer http.ResponseWriter, request *http.Request, status model.Status) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResubmitExhibition")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)
	form := dto.Form{}

	if err := validator.Validate(request.Body, &form); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Resubmit(ctx, id, form, status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to resubmit exhibition")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Exhibition " + id + " resubmitted as " + string(status))

	response.WithJSON(writer, http.StatusOK, res)
}

// GetExhibition returns one card.
// @Summary Get an exhibition
// @Tags Exhibition
// @Produce json
// @Param id path string true "Exhibition ID"
// @Success 200 {object} dto.ExhibitionResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetExhibition(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetExhibition")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get exhibition")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetForm returns an editing session pre-populated from the stored record.
// @Summary Get the edit form of an exhibition
// @Tags Exhibition
// @Produce json
// @Param id path string true "Exhibition ID"
// @Success 200 {object} dto.Form
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions/{id}/form [get]
// @Security BearerAuth
func (handler *Handler) GetForm(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetForm")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.GetForm(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get exhibition form")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// DeleteExhibition removes a record and its stored images.
// @Summary Delete an exhibition
// @Tags Exhibition
// @Produce json
// @Param id path string true "Exhibition ID"
// @Success 200 {object} response.Message "Exhibition deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteExhibition(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteExhibition")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete exhibition")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Exhibition " + id + " deleted")

	response.WithMessage(writer, http.StatusOK, "Exhibition deleted successfully")
}

// GetLinks returns hosted calendar and map links of a complete record.
// @Summary Get export links
// @Tags Exhibition
// @Produce json
// @Param id path string true "Exhibition ID"
// @Success 200 {object} dto.LinksResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions/{id}/links [get]
// @Security BearerAuth
func (handler *Handler) GetLinks(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLinks")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.Links(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to build exhibition links")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// DownloadCalendar serves a single-event iCalendar file.
// @Summary Download an .ics file
// @Description All-day event spanning the exhibition dates, end date inclusive.
// @Tags Exhibition
// @Produce text/calendar
// @Param id path string true "Exhibition ID"
// @Success 200 {file} file
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/exhibitions/{id}/calendar.ics [get]
// @Security BearerAuth
func (handler *Handler) DownloadCalendar(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DownloadCalendar")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	file, err := handler.service.Calendar(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to export exhibition")

		response.WithError(writer, err)

		return
	}

	response.WithAttachment(writer, constant.ContentTypeCalendar, file.FileName, file.Content)
}

// UploadImages stores several images at once.
// @Summary Upload exhibition images
// @Description Every file is stored before the response is sent; URLs keep the upload order.
// @Tags Exhibition
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Image files"
// @Success 200 {object} dto.UploadImagesResponse
// @Failure 400 {object} response.Error
// @Failure 413 {object} response.Error
// @Failure 502 {object} response.Error
// @Router /v1/exhibitions/images [post]
// @Security BearerAuth
func (handler *Handler) UploadImages(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadImages")
	defer scope.End()

	request.Body = http.MaxBytesReader(writer, request.Body, constant.RequestMaxUploadSize)

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WithError(writer, failure.PayloadTooLarge(fmt.Sprintf("upload exceeds %d MB", tooLarge.Limit>>20)))

			return
		}

		response.WithError(writer, failure.BadRequest(err))

		return
	}

	req := dto.UploadImagesRequest{Images: request.MultipartForm.File[constant.FormFiles]}

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate uploaded files")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.UploadImages(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload images")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Images uploaded")

	response.WithJSON(writer, http.StatusOK, res)
}
