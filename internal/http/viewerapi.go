package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/huandu/xstrings"

	"skinsight.app/skinsight/internal/mojang"
	"skinsight.app/skinsight/internal/resolver"
	"skinsight.app/skinsight/internal/store"
	"skinsight.app/skinsight/internal/viewer"
)

type SkinResolver interface {
	Resolve(ctx context.Context, identity string) (*resolver.Skin, error)
}

type SkinLoader interface {
	LoadFromURL(ctx context.Context, url string, playerName string) error
	LoadFromUpload(ctx context.Context, upload *viewer.Upload) (string, error)
	RestoreLastViewed(ctx context.Context) (*store.Snapshot, error)
	SetAnimationEnabled(ctx context.Context, enabled bool) error
}

type ViewerApi struct {
	SkinResolver
	SkinLoader
	ViewState store.ViewStateStore
}

func (s *ViewerApi) Handler() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	router.HandleFunc("/api/skin/{identity}", s.resolveHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/skin", s.uploadHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/skin", s.currentSkinHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/skin", s.clearSkinHandler).Methods(http.MethodDelete)
	router.HandleFunc("/api/state", s.stateHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/animation", s.animationGetHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/animation", s.animationPutHandler).Methods(http.MethodPut)

	return router
}

// resolveHandler turns a username or uuid into a skin reference and, on
// success, makes it the current skin of the viewer
func (s *ViewerApi) resolveHandler(response http.ResponseWriter, request *http.Request) {
	identity := mux.Vars(request)["identity"]

	skin, err := s.SkinResolver.Resolve(request.Context(), identity)
	if err != nil {
		s.handleResolveError(response, request, err)
		return
	}

	if err := s.SkinLoader.LoadFromURL(request.Context(), skin.Url, skin.Username); err != nil {
		var renderErr *viewer.RenderError
		if errors.As(err, &renderErr) {
			apiMessage(response, http.StatusUnprocessableEntity, "Unable to load the resolved skin")
			return
		}

		apiServerError(response, request, fmt.Errorf("unable to store the resolved skin: %w", err))
		return
	}

	responseData, _ := json.Marshal(map[string]any{
		"message": fmt.Sprintf("Loaded skin for %s", skin.Username),
		"skin":    skin,
	})
	response.Header().Set("Content-Type", "application/json")
	_, _ = response.Write(responseData)
}

func (s *ViewerApi) handleResolveError(response http.ResponseWriter, request *http.Request, err error) {
	switch {
	case errors.Is(err, resolver.ErrEmptyIdentity):
		apiMessage(response, http.StatusBadRequest, "Enter a username or uuid")
	case errors.Is(err, resolver.ErrNotFound):
		apiNotFound(response, "Player not found")
	case errors.Is(err, resolver.ErrNoSkin):
		apiNotFound(response, "No skin found for this player")
	case isMojangError(err):
		apiMessage(response, http.StatusBadGateway, "Unable to fetch the skin right now, try again later")
	default:
		apiServerError(response, request, fmt.Errorf("unable to resolve the skin: %w", err))
	}
}

func (s *ViewerApi) uploadHandler(response http.ResponseWriter, request *http.Request) {
	// An extra kilobyte on top of the ceiling leaves room for the multipart
	// framing, so an exactly-at-the-limit file is not truncated
	request.Body = http.MaxBytesReader(response, request.Body, viewer.MaxUploadSize+1024)

	file, header, err := request.FormFile("skin")
	if err != nil {
		apiBadRequest(response, map[string][]string{
			"skin": {"The request must contain a skin file in the \"skin\" field"},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apiBadRequest(response, map[string][]string{
			"skin": {"Unable to read the uploaded file"},
		})
		return
	}

	dataUrl, err := s.SkinLoader.LoadFromUpload(request.Context(), &viewer.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		var v *viewer.ValidationError
		var renderErr *viewer.RenderError
		switch {
		case errors.As(err, &v):
			// The validator reports errors by the struct fields names.
			// They are uppercased, but otherwise the same as the names in the API.
			// So to make them consistent it's enough just to make the first lowercased.
			for field, fieldErrors := range v.Errors {
				v.Errors[xstrings.FirstRuneToLower(field)] = fieldErrors
				delete(v.Errors, field)
			}

			apiBadRequest(response, v.Errors)
		case errors.As(err, &renderErr):
			apiMessage(response, http.StatusUnprocessableEntity, "The uploaded file could not be loaded as a skin")
		default:
			apiServerError(response, request, fmt.Errorf("unable to store the uploaded skin: %w", err))
		}

		return
	}

	responseData, _ := json.Marshal(map[string]string{
		"message":     "Skin uploaded",
		"currentSkin": dataUrl,
	})
	response.Header().Set("Content-Type", "application/json")
	response.WriteHeader(http.StatusCreated)
	_, _ = response.Write(responseData)
}

func (s *ViewerApi) currentSkinHandler(response http.ResponseWriter, request *http.Request) {
	snapshot, err := s.ViewState.Snapshot(request.Context())
	if err != nil {
		apiServerError(response, request, fmt.Errorf("unable to read the view state: %w", err))
		return
	}

	if snapshot == nil || snapshot.CurrentSkin == "" {
		response.WriteHeader(http.StatusNoContent)
		return
	}

	writeSnapshot(response, snapshot)
}

func (s *ViewerApi) clearSkinHandler(response http.ResponseWriter, request *http.Request) {
	if err := s.ViewState.ClearCurrentSkin(request.Context()); err != nil {
		apiServerError(response, request, fmt.Errorf("unable to clear the view state: %w", err))
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

// stateHandler is the startup path of the viewer: it replays the stored
// skin through the loader, which drops the stored entries when they no
// longer load, and reports the state the page should start from
func (s *ViewerApi) stateHandler(response http.ResponseWriter, request *http.Request) {
	snapshot, err := s.SkinLoader.RestoreLastViewed(request.Context())
	if err != nil {
		apiServerError(response, request, fmt.Errorf("unable to restore the view state: %w", err))
		return
	}

	message := "Ready to load a skin"
	if snapshot != nil && snapshot.CurrentSkin != "" {
		message = "Restored the last viewed skin"
	}

	result := map[string]any{
		"message":          message,
		"animationEnabled": snapshot.AnimationOn(),
	}
	if snapshot != nil && snapshot.CurrentSkin != "" {
		result["currentSkin"] = snapshot.CurrentSkin
		if snapshot.CurrentPlayerName != "" {
			result["currentPlayerName"] = snapshot.CurrentPlayerName
		}
	}

	responseData, _ := json.Marshal(result)
	response.Header().Set("Content-Type", "application/json")
	_, _ = response.Write(responseData)
}

func (s *ViewerApi) animationGetHandler(response http.ResponseWriter, request *http.Request) {
	snapshot, err := s.ViewState.Snapshot(request.Context())
	if err != nil {
		apiServerError(response, request, fmt.Errorf("unable to read the view state: %w", err))
		return
	}

	responseData, _ := json.Marshal(map[string]bool{
		"enabled": snapshot.AnimationOn(),
	})
	response.Header().Set("Content-Type", "application/json")
	_, _ = response.Write(responseData)
}

func (s *ViewerApi) animationPutHandler(response http.ResponseWriter, request *http.Request) {
	var body struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		apiBadRequest(response, map[string][]string{
			"enabled": {"The body of the request must be a valid JSON object with an \"enabled\" field"},
		})
		return
	}

	if err := s.SkinLoader.SetAnimationEnabled(request.Context(), body.Enabled); err != nil {
		apiServerError(response, request, fmt.Errorf("unable to store the animation preference: %w", err))
		return
	}

	response.WriteHeader(http.StatusNoContent)
}

func writeSnapshot(response http.ResponseWriter, snapshot *store.Snapshot) {
	result := map[string]string{
		"currentSkin": snapshot.CurrentSkin,
	}
	if snapshot.CurrentPlayerName != "" {
		result["currentPlayerName"] = snapshot.CurrentPlayerName
	}

	responseData, _ := json.Marshal(result)
	response.Header().Set("Content-Type", "application/json")
	_, _ = response.Write(responseData)
}

func isMojangError(err error) bool {
	var badRequest *mojang.BadRequestError
	var forbidden *mojang.ForbiddenError
	var tooManyRequests *mojang.TooManyRequestsError
	var serverError *mojang.ServerError

	return errors.As(err, &badRequest) ||
		errors.As(err, &forbidden) ||
		errors.As(err, &tooManyRequests) ||
		errors.As(err, &serverError)
}
