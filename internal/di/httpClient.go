package di

import (
	"net/http"
	"time"

	"github.com/defval/di"
	"github.com/spf13/viper"
)

var httpClientDiOptions = di.Options(
	di.Provide(newHttpClient),
)

// A hung upstream must not pin a request forever, so the shared
// outbound client carries a timeout
func newHttpClient(config *viper.Viper) *http.Client {
	config.SetDefault("http_client.timeout", 10*time.Second)

	return &http.Client{
		Timeout: config.GetDuration("http_client.timeout"),
	}
}
