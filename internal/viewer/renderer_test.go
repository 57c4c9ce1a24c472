package viewer

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/stretchr/testify/require"
)

func TestTextureFetcherDataUrls(t *testing.T) {
	fetcher := NewTextureFetcher(&http.Client{})

	t.Run("valid png data url", func(t *testing.T) {
		source := dataUrlPrefix + base64.StdEncoding.EncodeToString(append(bytes.Clone(pngSignature), "image body"...))
		require.NoError(t, fetcher.LoadSkin(context.Background(), source))
	})

	t.Run("unsupported data url format", func(t *testing.T) {
		err := fetcher.LoadSkin(context.Background(), "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(pngSignature))
		require.EqualError(t, err, "unsupported data url format")
	})

	t.Run("malformed base64 payload", func(t *testing.T) {
		err := fetcher.LoadSkin(context.Background(), dataUrlPrefix+"this is not base64!")
		require.ErrorContains(t, err, "malformed data url payload")
	})

	t.Run("payload is not a png", func(t *testing.T) {
		source := dataUrlPrefix + base64.StdEncoding.EncodeToString([]byte("GIF89a not a png"))
		err := fetcher.LoadSkin(context.Background(), source)
		require.EqualError(t, err, "the texture is not a png image")
	})
}

func TestTextureFetcherRemoteUrls(t *testing.T) {
	setup := func(t *testing.T) *TextureFetcher {
		t.Helper()
		t.Cleanup(gock.Off)

		httpClient := &http.Client{}
		gock.InterceptClient(httpClient)

		return NewTextureFetcher(httpClient)
	}

	t.Run("valid remote png", func(t *testing.T) {
		fetcher := setup(t)
		gock.New("http://textures.minecraft.net").
			Get("/texture/74d1e08b").
			Reply(200).
			Body(newPngBody())

		require.NoError(t, fetcher.LoadSkin(context.Background(), "http://textures.minecraft.net/texture/74d1e08b"))
	})

	t.Run("remote texture is gone", func(t *testing.T) {
		fetcher := setup(t)
		gock.New("http://textures.minecraft.net").
			Get("/texture/74d1e08b").
			Reply(404)

		err := fetcher.LoadSkin(context.Background(), "http://textures.minecraft.net/texture/74d1e08b")
		require.EqualError(t, err, "unexpected response status code: 404")
	})

	t.Run("remote texture is not a png", func(t *testing.T) {
		fetcher := setup(t)
		gock.New("http://textures.minecraft.net").
			Get("/texture/74d1e08b").
			Reply(200).
			BodyString("<html>a captive portal page</html>")

		err := fetcher.LoadSkin(context.Background(), "http://textures.minecraft.net/texture/74d1e08b")
		require.EqualError(t, err, "the texture is not a png image")
	})

	t.Run("remote body shorter than a png signature", func(t *testing.T) {
		fetcher := setup(t)
		gock.New("http://textures.minecraft.net").
			Get("/texture/74d1e08b").
			Reply(200).
			BodyString("x")

		err := fetcher.LoadSkin(context.Background(), "http://textures.minecraft.net/texture/74d1e08b")
		require.ErrorContains(t, err, "unable to read the texture")
	})
}

func newPngBody() *bytes.Reader {
	return bytes.NewReader(append(bytes.Clone(pngSignature), "image body"...))
}
