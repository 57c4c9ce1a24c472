package di

import (
	"net/http"
	"net/url"

	"github.com/defval/di"
	"github.com/spf13/viper"

	"skinsight.app/skinsight/internal/mojang"
)

var mojangDiOptions = di.Options(
	di.Provide(newMojangApi),
	di.Provide(newMojangUuidsProvider, di.As(new(mojang.UuidsProvider))),
	di.Provide(newMojangTexturesProvider, di.As(new(mojang.TexturesProvider))),
)

func newMojangApi(config *viper.Viper, httpClient *http.Client) (*mojang.MojangApi, error) {
	usernameUrl := config.GetString("mojang.username_url")
	if usernameUrl != "" {
		if _, err := url.ParseRequestURI(usernameUrl); err != nil {
			return nil, err
		}
	}

	profileUrl := config.GetString("mojang.profile_url")
	if profileUrl != "" {
		if _, err := url.ParseRequestURI(profileUrl); err != nil {
			return nil, err
		}
	}

	return mojang.NewMojangApi(httpClient, usernameUrl, profileUrl), nil
}

func newMojangUuidsProvider(mojangApi *mojang.MojangApi) (*mojang.MojangApiUuidsProvider, error) {
	return mojang.NewMojangApiUuidsProvider(mojangApi.UsernameToUuid)
}

func newMojangTexturesProvider(mojangApi *mojang.MojangApi) (*mojang.TexturesProviderWithInMemoryCache, error) {
	provider, err := mojang.NewMojangApiTexturesProvider(mojangApi.UuidToProfile)
	if err != nil {
		return nil, err
	}

	return mojang.NewTexturesProviderWithInMemoryCache(provider)
}
