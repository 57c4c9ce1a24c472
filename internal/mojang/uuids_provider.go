package mojang

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"

	"skinsight.app/skinsight/internal/otel"
)

type UuidsProvider interface {
	GetUuid(ctx context.Context, username string) (*ProfileInfo, error)
}

type UsernameToUuidEndpoint func(ctx context.Context, username string) (*ProfileInfo, error)

func NewMojangApiUuidsProvider(endpoint UsernameToUuidEndpoint) (*MojangApiUuidsProvider, error) {
	metrics, err := newMojangApiUuidsProviderMetrics(otel.GetMeter())
	if err != nil {
		return nil, err
	}

	return &MojangApiUuidsProvider{
		UsernameToUuidEndpoint: endpoint,
		metrics:                metrics,
	}, nil
}

type MojangApiUuidsProvider struct {
	UsernameToUuidEndpoint
	metrics *mojangApiUuidsProviderMetrics
}

func (p *MojangApiUuidsProvider) GetUuid(ctx context.Context, username string) (*ProfileInfo, error) {
	p.metrics.Requests.Add(ctx, 1)

	return p.UsernameToUuidEndpoint(ctx, username)
}

func newMojangApiUuidsProviderMetrics(meter metric.Meter) (*mojangApiUuidsProviderMetrics, error) {
	m := &mojangApiUuidsProviderMetrics{}
	var errors, err error

	m.Requests, err = meter.Int64Counter(
		"skinsight.mojang.uuid.request",
		metric.WithDescription("Number of username to uuid requests sent to Mojang API"),
		metric.WithUnit("{request}"),
	)
	errors = multierr.Append(errors, err)

	return m, errors
}

type mojangApiUuidsProviderMetrics struct {
	Requests metric.Int64Counter
}
