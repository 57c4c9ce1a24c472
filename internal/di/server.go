package di

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/defval/di"
	"github.com/getsentry/raven-go"
	"github.com/spf13/viper"
)

var serverDiOptions = di.Options(
	di.Provide(newServer),
)

type serverParams struct {
	di.Inject

	Config  *viper.Viper  `di:""`
	Handler http.Handler  `di:""`
	Sentry  *raven.Client `di:"" optional:"true"`
}

func newServer(params serverParams) *http.Server {
	params.Config.SetDefault("server.host", "")
	params.Config.SetDefault("server.port", 8080)

	var handler http.Handler
	if params.Sentry != nil {
		// raven.Recoverer uses DefaultClient and nothing can be done about it
		// To avoid code duplication, if the Sentry service is successfully initiated,
		// it will also replace DefaultClient, so raven.Recoverer will work with the instance
		// created in the application constructor
		handler = raven.Recoverer(params.Handler)
	} else {
		// Raven's Recoverer prints the stacktrace and sets the corresponding status itself.
		// But there is no magic and if you don't define a panic handler, Mux will just reset the connection
		handler = http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					debug.PrintStack()
					response.WriteHeader(http.StatusInternalServerError)
				}
			}()

			params.Handler.ServeHTTP(response, request)
		})
	}

	address := fmt.Sprintf("%s:%d", params.Config.GetString("server.host"), params.Config.GetInt("server.port"))
	server := &http.Server{
		Addr: address,
		// Reading is bounded generously since a skin upload can carry
		// megabytes of multipart payload over a slow link
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
		Handler:        handler,
	}

	return server
}
