package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

func StartServer(ctx context.Context, server *http.Server) {
	srvErr := make(chan error, 1)
	go func() {
		slog.Info("Starting the server", slog.String("addr", server.Addr))
		srvErr <- server.ListenAndServe()
		close(srvErr)
	}()

	select {
	case err := <-srvErr:
		slog.Error("Error in the server", slog.Any("error", err))
	case <-ctx.Done():
		slog.Info("Got stop signal, starting graceful shutdown")

		stopCtx, cancelFunc := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancelFunc()

		_ = server.Shutdown(stopCtx)

		slog.Info("Graceful shutdown succeed, exiting")
	}
}

func NotFoundHandler(response http.ResponseWriter, _ *http.Request) {
	apiNotFound(response, "Not Found")
}

func apiNotFound(resp http.ResponseWriter, message string) {
	data, _ := json.Marshal(map[string]string{
		"message": message,
	})

	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(http.StatusNotFound)
	_, _ = resp.Write(data)
}

func apiBadRequest(resp http.ResponseWriter, errorsPerField map[string][]string) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(http.StatusBadRequest)
	result, _ := json.Marshal(map[string]any{
		"errors": errorsPerField,
	})
	_, _ = resp.Write(result)
}

func apiMessage(resp http.ResponseWriter, statusCode int, message string) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(statusCode)
	result, _ := json.Marshal(map[string]string{
		"message": message,
	})
	_, _ = resp.Write(result)
}

var internalServerError = []byte("Internal server error")

func apiServerError(resp http.ResponseWriter, req *http.Request, err error) {
	span := trace.SpanFromContext(req.Context())
	span.SetStatus(codes.Error, "")
	span.RecordError(err)

	resp.Header().Set("Content-Type", "text/plain")
	resp.WriteHeader(http.StatusInternalServerError)
	_, _ = resp.Write(internalServerError)
}
