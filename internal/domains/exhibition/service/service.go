package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"expo/config"
	"expo/infras/otel"
	"expo/infras/s3"
	"expo/internal/domains/exhibition/event"
	"expo/internal/domains/exhibition/export"
	"expo/internal/domains/exhibition/model"
	"expo/internal/domains/exhibition/model/dto"
	"expo/internal/domains/exhibition/repository"
	"expo/internal/domains/exhibition/schedule"
	"expo/shared"
	"expo/shared/base64"
	"expo/shared/cache"
	"expo/shared/constant"
	gDto "expo/shared/dto"
	"expo/shared/failure"
	"expo/shared/timezone"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	cachePrefix     = "exhibition"
	cacheList       = "list"
	cacheGet        = "get"
	imageDirectory  = "exhibitions"
	uploadParallel  = 4
	defaultImageExt = ".jpg"
)

var (
	ErrNotFound     = failure.NotFound("exhibition not found")
	ErrUnauthorized = failure.Unauthorized("missing user")
)

type Exhibition interface {
	List(ctx context.Context) (dto.ListExhibitionsResponse, error)
	Get(ctx context.Context, id string) (dto.ExhibitionResponse, error)
	GetForm(ctx context.Context, id string) (dto.Form, error)
	Create(ctx context.Context, form dto.Form, status model.Status) (dto.SaveExhibitionResponse, error)
	Resubmit(ctx context.Context, id string, form dto.Form, status model.Status) (dto.SaveExhibitionResponse, error)
	Delete(ctx context.Context, id string) error
	Calendar(ctx context.Context, id string) (dto.CalendarFile, error)
	Links(ctx context.Context, id string) (dto.LinksResponse, error)
	UploadImages(ctx context.Context, req dto.UploadImagesRequest) (dto.UploadImagesResponse, error)
}

type serviceImpl struct {
	repo      repository.Exhibition
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
	publisher event.Publisher
}

func New(repo repository.Exhibition, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3, publisher event.Publisher) Exhibition {
	return &serviceImpl{
		repo:      repo,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
		publisher: publisher,
	}
}

func ownerPrefix(userID string) string {
	return shared.BuildCacheKey(cachePrefix, userID)
}

func currentUser(ctx context.Context) (string, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if userID == constant.Empty {
		return constant.Empty, ErrUnauthorized
	}

	return userID, nil
}

func (s *serviceImpl) cardOptions() dto.CardOptions {
	return dto.CardOptions{
		Now:          timezone.Now(),
		Locale:       schedule.ParseLocale(s.cfg.App.Locale),
		CalendarHost: s.cfg.App.Calendar.ServiceHost,
		MapHost:      s.cfg.App.Calendar.MapHost,
	}
}

func (s *serviceImpl) List(ctx context.Context) (res dto.ListExhibitionsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := currentUser(ctx)
	if err != nil {
		return res, err
	}

	var exhibitions []model.Exhibition

	cacheKey := shared.BuildCacheKey(ownerPrefix(userID), cacheList)

	if err = s.cache.Get(ctx, cacheKey, &exhibitions); err != nil {
		params := gDto.QueryParams{SortBy: model.FieldEndDate, SortDir: gDto.SortDirAsc}
		filter := gDto.FilterGroup{
			Filters: []any{
				gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			},
		}

		exhibitions, err = s.repo.GetAll(ctx, params, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list exhibitions")

			return res, fmt.Errorf("failed to list exhibitions: %w", err)
		}

		// saved before answering so a write that follows this read clears it
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, exhibitions, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save exhibitions to cache")
		}
	} else {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for exhibitions")
	}

	res.FromModels(exhibitions, s.cardOptions())

	return res, nil
}

// find loads a record owned by the current user, serving from cache first.
func (s *serviceImpl) find(ctx context.Context, userID, id string) (exhibition model.Exhibition, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".find")
	defer scope.End()
	defer scope.TraceIfError(err)

	if uuid.Validate(id) != nil {
		return exhibition, ErrNotFound
	}

	cacheKey := shared.BuildCacheKey(ownerPrefix(userID), cacheGet, id)

	if err = s.cache.Get(ctx, cacheKey, &exhibition); err == nil {
		return exhibition, nil
	}

	filter := shared.FilterByIDAndOwner(id, model.FieldID, userID, model.FieldUserID, model.TableName)

	exhibition, err = s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get exhibition")

		return exhibition, fmt.Errorf("failed to get exhibition: %w", err)
	}

	if exhibition.ID == constant.Empty {
		return exhibition, ErrNotFound
	}

	if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, exhibition, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save exhibition to cache")
	}

	return exhibition, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ExhibitionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := currentUser(ctx)
	if err != nil {
		return res, err
	}

	exhibition, err := s.find(ctx, userID, id)
	if err != nil {
		return res, err
	}

	res.FromModel(exhibition, s.cardOptions())

	return res, nil
}

func (s *serviceImpl) GetForm(ctx context.Context, id string) (form dto.Form, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetForm")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := currentUser(ctx)
	if err != nil {
		return form, err
	}

	exhibition, err := s.find(ctx, userID, id)
	if err != nil {
		return form, err
	}

	return dto.FormFromModel(exhibition), nil
}

func (s *serviceImpl) Create(ctx context.Context, form dto.Form, status model.Status) (res dto.SaveExhibitionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := currentUser(ctx)
	if err != nil {
		return res, err
	}

	if err = form.Validate(status); err != nil {
		return res, err
	}

	var offloaded []string
	if form.ImageURLs, offloaded, err = s.offloadDataURIs(ctx, userID, form.ImageURLs); err != nil {
		return res, err
	}

	exhibition, err := form.ToModel(userID, status, timezone.Now())
	if err != nil {
		s.removeImages(context.WithoutCancel(ctx), offloaded)

		return res, err
	}

	if err = s.repo.Insert(ctx, exhibition); err != nil {
		log.Error().Err(err).Msg("failed to insert exhibition")
		s.removeImages(context.WithoutCancel(ctx), offloaded)

		return res, fmt.Errorf("failed to save exhibition: %w", err)
	}

	s.afterWrite(ctx, userID, event.NewPayload(event.TypeSaved, exhibition, exhibition.ModifiedAt), nil)

	res.FromModel(exhibition, s.cardOptions())
	res.Form = dto.FormFromModel(exhibition)

	return res, nil
}

func (s *serviceImpl) Resubmit(ctx context.Context, id string, form dto.Form, status model.Status) (res dto.SaveExhibitionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resubmit")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := currentUser(ctx)
	if err != nil {
		return res, err
	}

	if err = form.Validate(status); err != nil {
		return res, err
	}

	existing, err := s.find(ctx, userID, id)
	if err != nil {
		return res, err
	}

	if err = dto.CheckTransition(existing.Status, status); err != nil {
		return res, err
	}

	var offloaded []string
	if form.ImageURLs, offloaded, err = s.offloadDataURIs(ctx, userID, form.ImageURLs); err != nil {
		return res, err
	}

	now := timezone.Now()

	fields, err := form.ToUpdateFields(userID, status, now)
	if err != nil {
		s.removeImages(context.WithoutCancel(ctx), offloaded)

		return res, err
	}

	filter := shared.FilterByIDAndOwner(id, model.FieldID, userID, model.FieldUserID, model.TableName)
	if err = s.repo.Update(ctx, fields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update exhibition")
		s.removeImages(context.WithoutCancel(ctx), offloaded)

		return res, fmt.Errorf("failed to save exhibition: %w", err)
	}

	updated, err := form.ToModel(userID, status, now)
	if err != nil {
		return res, err
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.CreatedBy = existing.CreatedBy

	dropped := slices.DeleteFunc(slices.Clone([]string(existing.ImageURLs)), func(url string) bool {
		return slices.Contains(updated.ImageURLs, url)
	})

	s.afterWrite(ctx, userID, event.NewPayload(event.TypeSaved, updated, now), dropped)

	res.FromModel(updated, s.cardOptions())
	res.Form = dto.FormFromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := currentUser(ctx)
	if err != nil {
		return err
	}

	exhibition, err := s.find(ctx, userID, id)
	if err != nil {
		return err
	}

	filter := shared.FilterByIDAndOwner(id, model.FieldID, userID, model.FieldUserID, model.TableName)
	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete exhibition")

		return fmt.Errorf("failed to delete exhibition: %w", err)
	}

	s.afterWrite(ctx, userID, event.NewPayload(event.TypeDeleted, exhibition, timezone.Now()), exhibition.ImageURLs)

	return nil
}

func (s *serviceImpl) exportEvent(ctx context.Context, id string) (ev export.Event, err error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return ev, err
	}

	exhibition, err := s.find(ctx, userID, id)
	if err != nil {
		return ev, err
	}

	return dto.ToExportEvent(exhibition) //nolint:wrapcheck
}

func (s *serviceImpl) Calendar(ctx context.Context, id string) (res dto.CalendarFile, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Calendar")
	defer scope.End()
	defer scope.TraceIfError(err)

	ev, err := s.exportEvent(ctx, id)
	if err != nil {
		return res, err
	}

	opts := export.Options{
		ProductID: s.cfg.App.Calendar.ProductID,
		UIDDomain: s.cfg.App.Calendar.UIDDomain,
	}

	res.FileName = export.FileName(ev.Title)
	res.Content = export.ICS(ev, timezone.Now(), opts)

	return res, nil
}

func (s *serviceImpl) Links(ctx context.Context, id string) (res dto.LinksResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Links")
	defer scope.End()
	defer scope.TraceIfError(err)

	ev, err := s.exportEvent(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromEvent(ev, s.cardOptions())

	return res, nil
}

// UploadImages stores every file concurrently and answers only once all of
// them are stored. URLs keep the order of the request; a single failure
// discards the whole batch.
func (s *serviceImpl) UploadImages(ctx context.Context, req dto.UploadImagesRequest) (res dto.UploadImagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImages")
	defer scope.End()
	defer scope.TraceIfError(err)

	userID, err := currentUser(ctx)
	if err != nil {
		return res, err
	}

	urls, err := s.uploadAll(ctx, userID, len(req.Images), func(i int) (string, []byte, error) {
		return readFileHeader(req.Images[i])
	}, func(i int) string {
		return path.Ext(req.Images[i].Filename)
	})
	if err != nil {
		return res, err
	}

	res.URLs = urls

	return res, nil
}

func readFileHeader(header *multipart.FileHeader) (contentType string, data []byte, err error) {
	file, err := header.Open()
	if err != nil {
		return constant.Empty, nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return constant.Empty, nil, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}

	return header.Header.Get(constant.RequestHeaderContentType), data, nil
}

// offloadDataURIs swaps inline base64 images for stored objects when a bucket
// is configured. Remote URLs pass through untouched and order is preserved.
// The second result holds only the objects stored by this call.
func (s *serviceImpl) offloadDataURIs(ctx context.Context, userID string, images []string) ([]string, []string, error) {
	if !s.s3.Enabled() {
		return images, nil, nil
	}

	inline := make([]int, 0, len(images))
	for i, image := range images {
		if strings.HasPrefix(image, base64.DataURIPrefix) {
			inline = append(inline, i)
		}
	}

	if len(inline) == 0 {
		return images, nil, nil
	}

	urls, err := s.uploadAll(ctx, userID, len(inline), func(i int) (string, []byte, error) {
		contentType, data, err := base64.Decode(images[inline[i]])
		if err != nil {
			return constant.Empty, nil, failure.BadRequest(err)
		}

		return contentType, data, nil
	}, func(i int) string {
		return extensionFor(base64.GetContentType(images[inline[i]]))
	})
	if err != nil {
		return nil, nil, err
	}

	out := slices.Clone(images)
	for i, idx := range inline {
		out[idx] = urls[i]
	}

	return out, urls, nil
}

func (s *serviceImpl) uploadAll(
	ctx context.Context,
	userID string,
	count int,
	read func(i int) (contentType string, data []byte, err error),
	ext func(i int) string,
) ([]string, error) {
	urls := make([]string, count)
	directory := path.Join(imageDirectory, userID)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(uploadParallel)

	for i := range count {
		group.Go(func() error {
			contentType, data, err := read(i)
			if err != nil {
				return err
			}

			url, err := s.s3.Upload(gctx, directory, uuid.NewString()+ext(i), contentType, data)
			if err != nil {
				return fmt.Errorf("failed to upload image %d: %w", i+1, err)
			}

			urls[i] = url

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("failed to upload images")

		uploaded := slices.DeleteFunc(urls, func(url string) bool { return url == constant.Empty })
		go s.removeImages(context.WithoutCancel(ctx), uploaded)

		var fail *failure.Failure
		if errors.As(err, &fail) {
			return nil, err
		}

		return nil, failure.BadGateway("image storage is unavailable")
	}

	return urls, nil
}

func extensionFor(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return defaultImageExt
	}

	return exts[0]
}

// removeImages deletes stored objects; URLs the bucket did not produce are skipped.
func (s *serviceImpl) removeImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		key := s.s3.ObjectKeyFromURL(url)
		if key == constant.Empty {
			continue
		}

		if err := s.s3.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("failed to delete exhibition image")
		}
	}
}

// afterWrite drops the owner's cached reads before the write is acknowledged,
// so a later read never sees the previous state. Publishing and image cleanup
// run off the request path.
func (s *serviceImpl) afterWrite(ctx context.Context, userID string, payload event.Payload, staleImages []string) {
	c := context.WithoutCancel(ctx)

	shared.InvalidateCaches(c, s.cache, ownerPrefix(userID))

	go func() {
		if err := s.publisher.Publish(c, payload); err != nil {
			log.Error().Err(err).Str("type", string(payload.Type)).Msg("failed to publish exhibition event")
		}

		if len(staleImages) > 0 {
			s.removeImages(c, staleImages)
		}
	}()
}
