package viewer

import (
	"context"
	"encoding/base64"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"

	"skinsight.app/skinsight/internal/otel"
	"skinsight.app/skinsight/internal/store"
)

// MaxUploadSize is the ceiling for uploaded skin files
const MaxUploadSize = 5 << 20

// RenderError marks a source that passed validation but was rejected by
// the rendering component. The stored state is never touched in this case
type RenderError struct {
	Reason error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("unable to load the skin: %s", e.Reason)
}

func (e *RenderError) Unwrap() error {
	return e.Reason
}

func NewLoader(renderer Renderer, viewState store.ViewStateStore) (*Loader, error) {
	metrics, err := newLoaderMetrics(otel.GetMeter())
	if err != nil {
		return nil, err
	}

	return &Loader{
		Renderer:        renderer,
		ViewState:       viewState,
		uploadValidator: createUploadValidator(),
		metrics:         metrics,
	}, nil
}

// Loader hands a skin source to the rendering component and records the
// result in the view state store. The write happens only after the
// renderer accepted the source, so a failed load keeps the last good skin
type Loader struct {
	Renderer  Renderer
	ViewState store.ViewStateStore

	uploadValidator *uploadValidator
	metrics         *loaderMetrics
}

func (l *Loader) LoadFromURL(ctx context.Context, url string, playerName string) error {
	if err := l.Renderer.LoadSkin(ctx, url); err != nil {
		l.metrics.RenderFailures.Add(ctx, 1)
		return &RenderError{Reason: err}
	}

	l.metrics.UrlLoads.Add(ctx, 1)

	return l.ViewState.SetCurrentSkin(ctx, url, playerName)
}

// LoadFromUpload validates the uploaded file, converts it into a data url
// and stores it with the name entry removed, since no name is known for a
// directly uploaded skin. Returns the stored data url
func (l *Loader) LoadFromUpload(ctx context.Context, upload *Upload) (string, error) {
	if err := l.uploadValidator.Validate(upload); err != nil {
		l.metrics.RejectedUploads.Add(ctx, 1)
		return "", err
	}

	dataUrl := dataUrlPrefix + base64.StdEncoding.EncodeToString(upload.Data)
	if err := l.Renderer.LoadSkin(ctx, dataUrl); err != nil {
		l.metrics.RenderFailures.Add(ctx, 1)
		return "", &RenderError{Reason: err}
	}

	l.metrics.Uploads.Add(ctx, 1)

	return dataUrl, l.ViewState.SetCurrentSkin(ctx, dataUrl, "")
}

// RestoreLastViewed replays the stored skin on startup. When the stored
// source no longer loads, the stale skin and name entries are cleared and
// the viewer starts from the ready state
func (l *Loader) RestoreLastViewed(ctx context.Context) (*store.Snapshot, error) {
	snapshot, err := l.ViewState.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if snapshot == nil || snapshot.CurrentSkin == "" {
		return snapshot, nil
	}

	if err := l.Renderer.LoadSkin(ctx, snapshot.CurrentSkin); err != nil {
		l.metrics.RenderFailures.Add(ctx, 1)
		if clearErr := l.ViewState.ClearCurrentSkin(ctx); clearErr != nil {
			return nil, clearErr
		}

		snapshot.CurrentSkin = ""
		snapshot.CurrentPlayerName = ""
	}

	return snapshot, nil
}

func (l *Loader) SetAnimationEnabled(ctx context.Context, enabled bool) error {
	return l.ViewState.SetAnimationEnabled(ctx, enabled)
}

func newLoaderMetrics(meter metric.Meter) (*loaderMetrics, error) {
	m := &loaderMetrics{}
	var errors, err error

	m.UrlLoads, err = meter.Int64Counter(
		"skinsight.loader.url.loaded",
		metric.WithDescription("Number of skins loaded from a resolved url"),
		metric.WithUnit("{skin}"),
	)
	errors = multierr.Append(errors, err)

	m.Uploads, err = meter.Int64Counter(
		"skinsight.loader.upload.loaded",
		metric.WithDescription("Number of skins loaded from an uploaded file"),
		metric.WithUnit("{skin}"),
	)
	errors = multierr.Append(errors, err)

	m.RejectedUploads, err = meter.Int64Counter(
		"skinsight.loader.upload.rejected",
		metric.WithDescription("Number of uploads rejected before any rendering work"),
		metric.WithUnit("{skin}"),
	)
	errors = multierr.Append(errors, err)

	m.RenderFailures, err = meter.Int64Counter(
		"skinsight.loader.render.failed",
		metric.WithDescription("Number of sources rejected by the rendering component"),
		metric.WithUnit("{skin}"),
	)
	errors = multierr.Append(errors, err)

	return m, errors
}

type loaderMetrics struct {
	UrlLoads        metric.Int64Counter
	Uploads         metric.Int64Counter
	RejectedUploads metric.Int64Counter
	RenderFailures  metric.Int64Counter
}
