package service

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/emzola/locallibrary/config"
	"github.com/emzola/locallibrary/internal/jsonlog"
	"github.com/emzola/locallibrary/repository"
	"golang.org/x/sync/errgroup"
)

// Service is the catalog's business layer.
type Service interface {
	genres
	authors
	books
	bookInstances
	catalog
}

// Notifier sends templated e-mail. mailer.Mailer satisfies it.
type Notifier interface {
	Send(recipient, templateFile string, data any) error
}

// Uploader stores an object. *manager.Uploader satisfies it.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// service defines the service layer.
type service struct {
	config   config.Config
	wg       *sync.WaitGroup
	logger   *jsonlog.Logger
	repo     repository.Repository
	mailer   Notifier
	uploader Uploader
	client   *http.Client
}

// New creates a new instance of Service. mailer and uploader may be nil, in
// which case loan notices and cover uploads are unavailable.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository, mailer Notifier, uploader Uploader, client *http.Client) *service {
	return &service{
		config:   cfg,
		wg:       wg,
		logger:   logger,
		repo:     repo,
		mailer:   mailer,
		uploader: uploader,
		client:   client,
	}
}

// join runs fns concurrently and waits for all of them. The first error
// cancels the context the others see and is the one returned.
func join(ctx context.Context, fns ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		g.Go(func() error {
			return fn(ctx)
		})
	}
	return g.Wait()
}
