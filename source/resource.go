// Package source reads vocabulary resources, local files or online IRIs,
// into datasets. Online reads are retried, cached, and fall back to the
// cache or a stored local copy when the server cannot be reached.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/c360studio/artifactgen/dataset"
	"github.com/c360studio/artifactgen/storage"
)

// DefaultModificationDate stands in for an unknown modification time of an
// online vocabulary. It predates the first web browser, so anything
// generated is always considered newer.
var DefaultModificationDate = time.UnixMilli(662688059000).UTC()

// Read origins, reported to the ReadRecorder.
const (
	OriginFile      = "file"
	OriginHTTP      = "http"
	OriginCache     = "cache"
	OriginLocalCopy = "local-copy"
)

// ReadRecorder observes resource reads. The metrics package implements it.
type ReadRecorder interface {
	RecordRead(origin, status string)
}

// ReadOptions carry the per-vocabulary overrides that influence reading.
type ReadOptions struct {
	// Accept overrides the Accept header sent for online resources.
	Accept string

	// ContentTypeOverride forces the parser regardless of the response.
	ContentTypeOverride string

	// ContentTypeFallback is used when the response has no usable
	// Content-Type.
	ContentTypeFallback string

	// LocalCopyDirectory is searched for a stored copy when an online read
	// fails.
	LocalCopyDirectory string
}

// IsOnline reports whether resource should be fetched over HTTP.
func IsOnline(resource string) bool {
	return strings.HasPrefix(resource, "http")
}

// Reader loads vocabulary resources.
type Reader struct {
	fetcher  *Fetcher
	cache    *storage.Cache
	recorder ReadRecorder
	logger   *slog.Logger
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithCache enables the fetch cache.
func WithCache(c *storage.Cache) ReaderOption {
	return func(r *Reader) { r.cache = c }
}

// WithRecorder reports every read to rec.
func WithRecorder(rec ReadRecorder) ReaderOption {
	return func(r *Reader) { r.recorder = rec }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) ReaderOption {
	return func(r *Reader) { r.logger = l }
}

// NewReader creates a reader fetching through f.
func NewReader(f *Fetcher, opts ...ReaderOption) *Reader {
	r := &Reader{fetcher: f, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read loads resource into a dataset.
func (r *Reader) Read(ctx context.Context, resource string, opts ReadOptions) (*dataset.Dataset, error) {
	r.logger.Debug("Loading resource", slog.String("resource", resource))
	if !IsOnline(resource) {
		d, err := dataset.ParseFile(resource)
		r.record(OriginFile, err)
		return d, err
	}

	d, err := r.readOnline(ctx, resource, opts)
	r.record(OriginHTTP, err)
	if err == nil {
		return d, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	r.logger.Warn("Failed to fetch vocabulary, trying previously stored copies",
		slog.String("resource", resource),
		slog.String("error", err.Error()))

	if d, cacheErr := r.readCached(resource, opts); cacheErr == nil {
		r.record(OriginCache, nil)
		return d, nil
	} else if !errors.Is(cacheErr, storage.ErrNotFound) {
		r.record(OriginCache, cacheErr)
		r.logger.Debug("Cached copy unusable", slog.String("resource", resource), slog.String("error", cacheErr.Error()))
	}

	d, localErr := ReadLocalCopy(opts.LocalCopyDirectory, resource, err)
	r.record(OriginLocalCopy, localErr)
	if localErr != nil {
		return nil, localErr
	}
	return d, nil
}

func (r *Reader) readOnline(ctx context.Context, resource string, opts ReadOptions) (*dataset.Dataset, error) {
	accept := opts.Accept
	if accept == "" {
		accept = dataset.DefaultAcceptHeader
	}

	var result *FetchResult
	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		res, err := r.fetcher.Fetch(ctx, resource, accept)
		if err != nil {
			return err // retry.NonRetryable errors won't be retried
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	format, err := selectFormat(resource, opts.ContentTypeOverride, result.ContentType, opts.ContentTypeFallback)
	if err != nil {
		return nil, err
	}
	d, err := dataset.Parse(bytes.NewReader(result.Body), format, resource)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		entry := &storage.CachedResource{
			IRI:          resource,
			Body:         result.Body,
			ContentType:  string(format),
			LastModified: result.LastModified,
			FetchedAt:    time.Now().UTC(),
		}
		if err := r.cache.Put(entry); err != nil {
			r.logger.Warn("Failed to cache vocabulary", slog.String("resource", resource), slog.String("error", err.Error()))
		}
	}
	return d, nil
}

func (r *Reader) readCached(resource string, opts ReadOptions) (*dataset.Dataset, error) {
	if r.cache == nil {
		return nil, storage.ErrNotFound
	}
	entry, err := r.cache.Get(resource)
	if err != nil {
		return nil, err
	}
	format, err := selectFormat(resource, opts.ContentTypeOverride, entry.ContentType, opts.ContentTypeFallback)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Using cached copy of vocabulary",
		slog.String("resource", resource),
		slog.Time("fetched_at", entry.FetchedAt))
	return dataset.Parse(bytes.NewReader(entry.Body), format, resource)
}

// selectFormat applies the override, then the response content type, then
// the fallback.
func selectFormat(resource, override, contentType, fallback string) (dataset.Format, error) {
	for _, candidate := range []string{override, contentType, fallback} {
		if candidate == "" {
			continue
		}
		if f, ok := dataset.FormatForMediaType(candidate); ok {
			return f, nil
		}
		if candidate == override {
			return "", retry.NonRetryable(fmt.Errorf("unsupported content type override [%s] for resource [%s]", override, resource))
		}
	}
	return "", fmt.Errorf("response for resource [%s] has content type [%s], so we cannot reliably determine the correct RDF parser to use (consider setting 'vocabContentTypeHeaderOverride' or 'vocabContentTypeHeaderFallback')", resource, contentType)
}

// LastModified returns when resource last changed. Online resources report
// DefaultModificationDate for unparsable headers, and the current time when
// the server cannot be reached or answers with an error status.
func (r *Reader) LastModified(ctx context.Context, resource string) (time.Time, error) {
	if !IsOnline(resource) {
		info, err := os.Stat(resource)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to stat resource [%s]: %w", resource, err)
		}
		return info.ModTime(), nil
	}

	t, err := r.fetcher.LastModified(ctx, resource)
	if err != nil {
		r.logger.Debug("Failed to lookup last modification time",
			slog.String("resource", resource),
			slog.String("error", err.Error()))
		return time.Now(), nil
	}
	return t, nil
}

func (r *Reader) record(origin string, err error) {
	if r.recorder == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.recorder.RecordRead(origin, status)
}

// TouchFile sets the access and modification times of path to now,
// creating an empty file if it does not exist.
func TouchFile(path string) error {
	now := time.Now()
	if err := os.Chtimes(path, now, now); err == nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to touch file [%s]: %w", path, err)
	}
	return f.Close()
}
