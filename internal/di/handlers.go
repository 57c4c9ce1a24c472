package di

import (
	netHttp "net/http"

	"github.com/defval/di"
	"github.com/etherlabsio/healthcheck/v2"
	"github.com/gorilla/mux"

	. "skinsight.app/skinsight/internal/http"
	"skinsight.app/skinsight/internal/store"
	"skinsight.app/skinsight/web"
)

var handlersDiOptions = di.Options(
	di.Provide(newHandlerFactory, di.As(new(netHttp.Handler))),
	di.Provide(newViewerApiHandler, di.WithName("viewer")),
	di.Provide(newMojangProxyHandler, di.WithName("proxy")),
)

func newHandlerFactory(
	container *di.Container,
) (*mux.Router, error) {
	// The viewer API owns the root prefix, so its router is the base one.
	// gorilla.mux has no native way to combine multiple routers and the
	// mounting hack misbehaves on an empty prefix
	var router *mux.Router
	if err := container.Resolve(&router, di.Name("viewer")); err != nil {
		return nil, err
	}

	router.StrictSlash(true)
	router.NotFoundHandler = netHttp.HandlerFunc(NotFoundHandler)

	var proxyRouter *mux.Router
	if err := container.Resolve(&proxyRouter, di.Name("proxy")); err != nil {
		return nil, err
	}

	router.PathPrefix("/MojangProxy").Handler(proxyRouter)

	// Resolve health checkers last, because all the services required by the application
	// must first be initialized and each of them can publish its own checkers
	var healthCheckers []*namedHealthChecker
	if has, _ := container.Has(&healthCheckers); has {
		if err := container.Resolve(&healthCheckers); err != nil {
			return nil, err
		}

		checkersOptions := make([]healthcheck.Option, len(healthCheckers))
		for i, checker := range healthCheckers {
			checkersOptions[i] = healthcheck.WithChecker(checker.Name, checker.Checker)
		}

		router.Handle("/healthcheck", healthcheck.Handler(checkersOptions...)).Methods("GET")
	}

	// The static viewer shell catches everything the API didn't
	router.PathPrefix("/").Handler(web.Handler())

	return router, nil
}

func newViewerApiHandler(
	skinResolver SkinResolver,
	skinLoader SkinLoader,
	viewState store.ViewStateStore,
) *mux.Router {
	return (&ViewerApi{
		SkinResolver: skinResolver,
		SkinLoader:   skinLoader,
		ViewState:    viewState,
	}).Handler()
}

func newMojangProxyHandler(httpClient *netHttp.Client) (*mux.Router, error) {
	proxy, err := NewMojangProxy(httpClient)
	if err != nil {
		return nil, err
	}

	return proxy.Handler(), nil
}

type namedHealthChecker struct {
	Name    string
	Checker healthcheck.Checker
}
