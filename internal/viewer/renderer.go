package viewer

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

const dataUrlPrefix = "data:image/png;base64,"

// Renderer is the boundary to the rendering component. The actual 3D work
// happens in the browser library, so the server side implementation only
// has to answer one question: will this source load as a skin texture
type Renderer interface {
	LoadSkin(ctx context.Context, source string) error
}

func NewTextureFetcher(http *http.Client) *TextureFetcher {
	return &TextureFetcher{http: http}
}

// TextureFetcher validates a skin source the way the rendering library
// would: embedded data urls are decoded in place, remote urls are fetched,
// and in both cases the payload must start with a png signature
type TextureFetcher struct {
	http *http.Client
}

func (f *TextureFetcher) LoadSkin(ctx context.Context, source string) error {
	if strings.HasPrefix(source, "data:") {
		return loadDataUrl(source)
	}

	return f.loadRemote(ctx, source)
}

func loadDataUrl(source string) error {
	if !strings.HasPrefix(source, dataUrlPrefix) {
		return errors.New("unsupported data url format")
	}

	decoded, err := base64.StdEncoding.DecodeString(source[len(dataUrlPrefix):])
	if err != nil {
		return fmt.Errorf("malformed data url payload: %w", err)
	}

	return checkPngSignature(decoded)
}

func (f *TextureFetcher) loadRemote(ctx context.Context, url string) error {
	request, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	response, err := f.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return fmt.Errorf("unexpected response status code: %d", response.StatusCode)
	}

	header := make([]byte, len(pngSignature))
	_, err = io.ReadFull(response.Body, header)
	if err != nil {
		return fmt.Errorf("unable to read the texture: %w", err)
	}

	return checkPngSignature(header)
}

func checkPngSignature(data []byte) error {
	if !bytes.HasPrefix(data, pngSignature) {
		return errors.New("the texture is not a png image")
	}

	return nil
}
