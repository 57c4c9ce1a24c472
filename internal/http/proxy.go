package http

import (
	"io"
	"net/http"
	"net/url"
	"slices"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"

	"skinsight.app/skinsight/internal/otel"
)

// Hosts the proxy is allowed to forward to. Anything else is rejected so
// the endpoint cannot be abused as an open relay
var allowedUpstreamHosts = []string{
	"api.mojang.com",
	"sessionserver.mojang.com",
}

const maxProxiedBodySize = 1 << 20

func NewMojangProxy(http *http.Client) (*MojangProxy, error) {
	metrics, err := newMojangProxyMetrics(otel.GetMeter())
	if err != nil {
		return nil, err
	}

	return &MojangProxy{
		http:    http,
		metrics: metrics,
	}, nil
}

// MojangProxy forwards a browser request to the Mojang API on its behalf
// to work around cross-origin restrictions. The upstream status and JSON
// body are passed through as-is
type MojangProxy struct {
	http    *http.Client
	metrics *mojangProxyMetrics
}

func (p *MojangProxy) Handler() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/MojangProxy", p.proxyHandler).Methods(http.MethodGet)

	return router
}

func (p *MojangProxy) proxyHandler(response http.ResponseWriter, request *http.Request) {
	endpoint := request.URL.Query().Get("endpoint")
	if endpoint == "" {
		apiBadRequest(response, map[string][]string{
			"endpoint": {"endpoint is a required query parameter"},
		})
		return
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme != "https" || !slices.Contains(allowedUpstreamHosts, parsed.Host) {
		p.metrics.Rejected.Add(request.Context(), 1)
		apiBadRequest(response, map[string][]string{
			"endpoint": {"endpoint must be an https url of a known Mojang API host"},
		})
		return
	}

	p.metrics.Requests.Add(request.Context(), 1)

	upstreamRequest, err := http.NewRequestWithContext(request.Context(), "GET", parsed.String(), nil)
	if err != nil {
		apiServerError(response, request, err)
		return
	}

	upstreamResponse, err := p.http.Do(upstreamRequest)
	if err != nil {
		apiMessage(response, http.StatusBadGateway, "Unable to reach the upstream service")
		return
	}
	defer upstreamResponse.Body.Close()

	if contentType := upstreamResponse.Header.Get("Content-Type"); contentType != "" {
		response.Header().Set("Content-Type", contentType)
	}

	response.WriteHeader(upstreamResponse.StatusCode)
	_, _ = io.Copy(response, io.LimitReader(upstreamResponse.Body, maxProxiedBodySize))
}

func newMojangProxyMetrics(meter metric.Meter) (*mojangProxyMetrics, error) {
	m := &mojangProxyMetrics{}
	var errors, err error

	m.Requests, err = meter.Int64Counter(
		"skinsight.proxy.request",
		metric.WithDescription("Number of requests forwarded to the Mojang API"),
		metric.WithUnit("{request}"),
	)
	errors = multierr.Append(errors, err)

	m.Rejected, err = meter.Int64Counter(
		"skinsight.proxy.rejected",
		metric.WithDescription("Number of proxy requests rejected by the upstream allowlist"),
		metric.WithUnit("{request}"),
	)
	errors = multierr.Append(errors, err)

	return m, errors
}

type mojangProxyMetrics struct {
	Requests metric.Int64Counter
	Rejected metric.Int64Counter
}
