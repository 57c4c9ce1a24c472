package resolver

import (
	"context"
	"errors"
	"strings"

	"github.com/brunomvsouza/singleflight"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"

	"skinsight.app/skinsight/internal/mojang"
	"skinsight.app/skinsight/internal/otel"
)

var ErrEmptyIdentity = errors.New("no username or uuid provided")
var ErrNotFound = errors.New("player not found")
var ErrNoSkin = errors.New("the player has no skin")

// Skin is a resolved skin reference: the texture urls together with
// the authoritative profile identity they were resolved from
type Skin struct {
	Uuid     string `json:"uuid"`
	Username string `json:"username"`
	Url      string `json:"skinUrl"`
	Model    string `json:"skinModel,omitempty"`
	CapeUrl  string `json:"capeUrl,omitempty"`
}

func New(
	uuidsProvider mojang.UuidsProvider,
	texturesProvider mojang.TexturesProvider,
) (*Resolver, error) {
	metrics, err := newResolverMetrics(otel.GetMeter())
	if err != nil {
		return nil, err
	}

	return &Resolver{
		UuidsProvider:    uuidsProvider,
		TexturesProvider: texturesProvider,
		metrics:          metrics,
	}, nil
}

type Resolver struct {
	mojang.UuidsProvider
	mojang.TexturesProvider

	metrics *resolverMetrics
	group   singleflight.Group[string, *Skin]
}

// Resolve turns a username or uuid into a skin reference through at most
// two sequential Mojang lookups. Uuid-shaped input goes straight to the
// profile endpoint, anything else is exchanged for a uuid first.
// Concurrent resolutions of the same identity share a single flight
func (r *Resolver) Resolve(ctx context.Context, identity string) (*Skin, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, ErrEmptyIdentity
	}

	result, err, shared := r.group.Do(strings.ToLower(identity), func() (*Skin, error) {
		return r.resolve(ctx, identity)
	})

	r.recordMetrics(ctx, shared, err)

	return result, err
}

func (r *Resolver) resolve(ctx context.Context, identity string) (*Skin, error) {
	profileUuid, isUuid := classifyUuid(identity)
	var fallbackName string
	if !isUuid {
		profileInfo, err := r.UuidsProvider.GetUuid(ctx, identity)
		if err != nil {
			return nil, err
		}

		if profileInfo == nil {
			return nil, ErrNotFound
		}

		profileUuid = mojang.NormalizeUuid(profileInfo.Id)
		fallbackName = profileInfo.Name
	}

	profile, err := r.TexturesProvider.GetTextures(ctx, profileUuid)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		return nil, ErrNotFound
	}

	// The profile response carries the well-cased username. The name from
	// the uuid lookup may be stale or miscased, so it is only a fallback
	username := profile.Name
	if username == "" {
		username = fallbackName
	}

	decodedTextures, err := profile.DecodeTextures()
	if err != nil {
		return nil, err
	}

	if decodedTextures == nil || decodedTextures.Textures == nil || decodedTextures.Textures.Skin == nil || decodedTextures.Textures.Skin.Url == "" {
		return nil, ErrNoSkin
	}

	skin := &Skin{
		Uuid:     profileUuid,
		Username: username,
		Url:      decodedTextures.Textures.Skin.Url,
	}

	if decodedTextures.Textures.Skin.Metadata != nil {
		skin.Model = decodedTextures.Textures.Skin.Metadata.Model
	}

	if decodedTextures.Textures.Cape != nil {
		skin.CapeUrl = decodedTextures.Textures.Cape.Url
	}

	return skin, nil
}

func (r *Resolver) recordMetrics(ctx context.Context, shared bool, err error) {
	if shared {
		r.metrics.Shared.Add(ctx, 1)
	}

	switch {
	case err == nil:
		r.metrics.Found.Add(ctx, 1)
	case errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoSkin):
		r.metrics.Missed.Add(ctx, 1)
	default:
		r.metrics.Failed.Add(ctx, 1)
	}
}

// classifyUuid reports whether the identity is a 32 characters hex string
// or a standard dashed uuid and returns its normalized compact form
func classifyUuid(identity string) (string, bool) {
	if len(identity) != 32 && len(identity) != 36 {
		return "", false
	}

	parsed, err := uuid.Parse(identity)
	if err != nil {
		return "", false
	}

	return mojang.NormalizeUuid(parsed.String()), true
}

func newResolverMetrics(meter metric.Meter) (*resolverMetrics, error) {
	m := &resolverMetrics{}
	var errors, err error

	m.Found, err = meter.Int64Counter(
		"skinsight.resolver.found",
		metric.WithDescription("Number of successfully resolved skins"),
		metric.WithUnit("{resolution}"),
	)
	errors = multierr.Append(errors, err)

	m.Missed, err = meter.Int64Counter(
		"skinsight.resolver.missed",
		metric.WithDescription("Number of resolutions that found no player or no skin"),
		metric.WithUnit("{resolution}"),
	)
	errors = multierr.Append(errors, err)

	m.Failed, err = meter.Int64Counter(
		"skinsight.resolver.failed",
		metric.WithDescription("Number of resolutions failed due to an upstream error"),
		metric.WithUnit("{resolution}"),
	)
	errors = multierr.Append(errors, err)

	m.Shared, err = meter.Int64Counter(
		"skinsight.resolver.singleflight.shared",
		metric.WithDescription("Number of resolutions coalesced into another in-flight resolution"),
		metric.WithUnit("{resolution}"),
	)
	errors = multierr.Append(errors, err)

	return m, errors
}

type resolverMetrics struct {
	Found  metric.Int64Counter
	Missed metric.Int64Counter
	Failed metric.Int64Counter
	Shared metric.Int64Counter
}
