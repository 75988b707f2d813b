package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/absmach/quadra/manager"
	"github.com/absmach/quadra/pkg/api"
	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func MakeHandler(svc manager.Service, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(api.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Post("/integrate", otelhttp.NewHandler(kithttp.NewServer(
		integrateEndpoint(svc),
		decodeJSON[integrateReq],
		api.EncodeResponse,
		opts...,
	), "integrate").ServeHTTP)
	mux.Post("/estimate", otelhttp.NewHandler(kithttp.NewServer(
		estimateEndpoint(svc),
		decodeJSON[estimateReq],
		api.EncodeResponse,
		opts...,
	), "estimate-area").ServeHTTP)
	mux.Post("/add", otelhttp.NewHandler(kithttp.NewServer(
		addEndpoint(svc),
		decodeJSON[addReq],
		api.EncodeResponse,
		opts...,
	), "add").ServeHTTP)
	mux.Post("/benchmark", otelhttp.NewHandler(kithttp.NewServer(
		benchmarkEndpoint(svc),
		decodeJSON[benchmarkReq],
		api.EncodeResponse,
		opts...,
	), "benchmark").ServeHTTP)

	mux.Route("/workers", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			addWorkerEndpoint(svc),
			decodeJSON[workerReq],
			api.EncodeResponse,
			opts...,
		), "add-worker").ServeHTTP)
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listWorkersEndpoint(svc),
			decodeListEntityReq,
			api.EncodeResponse,
			opts...,
		), "list-workers").ServeHTTP)
		r.Route("/{workerID}", func(r chi.Router) {
			r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
				getWorkerEndpoint(svc),
				decodeEntityReq("workerID"),
				api.EncodeResponse,
				opts...,
			), "get-worker").ServeHTTP)
			r.Delete("/", otelhttp.NewHandler(kithttp.NewServer(
				removeWorkerEndpoint(svc),
				decodeEntityReq("workerID"),
				api.EncodeResponse,
				opts...,
			), "remove-worker").ServeHTTP)
		})
	})

	mux.Route("/jobs", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			submitJobEndpoint(svc),
			decodeJSON[jobReq],
			api.EncodeResponse,
			opts...,
		), "submit-job").ServeHTTP)
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listJobsEndpoint(svc),
			decodeListEntityReq,
			api.EncodeResponse,
			opts...,
		), "list-jobs").ServeHTTP)
		r.Get("/{jobID}", otelhttp.NewHandler(kithttp.NewServer(
			getJobEndpoint(svc),
			decodeEntityReq("jobID"),
			api.EncodeResponse,
			opts...,
		), "get-job").ServeHTTP)
	})

	mux.Get("/health", api.Health("manager", instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeJSON[T any](_ context.Context, r *http.Request) (any, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Join(api.ErrValidation, api.ErrUnsupportedContentType)
	}

	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Join(err, api.ErrValidation)
	}

	return req, nil
}

func decodeEntityReq(key string) kithttp.DecodeRequestFunc {
	return func(_ context.Context, r *http.Request) (any, error) {
		return entityReq{
			id: chi.URLParam(r, key),
		}, nil
	}
}

func decodeListEntityReq(_ context.Context, r *http.Request) (any, error) {
	o, err := api.ReadNumQuery[uint64](r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return nil, errors.Join(api.ErrValidation, err)
	}

	l, err := api.ReadNumQuery[uint64](r, api.LimitKey, api.DefLimit)
	if err != nil {
		return nil, errors.Join(api.ErrValidation, err)
	}

	return listEntityReq{
		offset: o,
		limit:  l,
	}, nil
}
