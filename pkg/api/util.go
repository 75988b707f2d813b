package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	kithttp "github.com/go-kit/kit/transport/http"
)

var (
	ErrValidation             = errors.New("failed to validate request")
	ErrMissingID              = errors.New("missing entity id")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrInvalidQueryParams     = errors.New("invalid query parameters")
)

// Build information, set with -ldflags at link time.
var (
	Version   = "0.0.0"
	Commit    = "ffffffff"
	BuildTime = "1970-01-01_00:00:00"
)

type number interface {
	~int32 | ~int64 | ~uint64 | ~float64
}

// ReadNumQuery parses the query parameter key, returning def when it is
// absent.
func ReadNumQuery[T number](r *http.Request, key string, def T) (T, error) {
	vals := r.URL.Query()[key]
	if len(vals) > 1 {
		return 0, fmt.Errorf("%w: %s given more than once", ErrInvalidQueryParams, key)
	}
	if len(vals) == 0 || vals[0] == "" {
		return def, nil
	}

	var (
		v   T
		err error
	)
	switch any(def).(type) {
	case int32:
		var n int64
		n, err = strconv.ParseInt(vals[0], 10, 32)
		v = T(n)
	case int64:
		var n int64
		n, err = strconv.ParseInt(vals[0], 10, 64)
		v = T(n)
	case uint64:
		var n uint64
		n, err = strconv.ParseUint(vals[0], 10, 64)
		v = T(n)
	default:
		var f float64
		f, err = strconv.ParseFloat(vals[0], 64)
		v = T(f)
	}
	if err != nil {
		return 0, errors.Join(ErrInvalidQueryParams, err)
	}

	return v, nil
}

// LoggingErrorEncoder logs request failures before encoding them.
func LoggingErrorEncoder(logger *slog.Logger, enc kithttp.ErrorEncoder) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		if errors.Is(err, ErrValidation) {
			logger.Error(err.Error())
		}

		enc(ctx, err, w)
	}
}

type healthRes struct {
	Status      string `json:"status"`
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Description string `json:"description"`
	BuildTime   string `json:"build_time"`
	InstanceID  string `json:"instance_id"`
}

// Health reports that service is up.
func Health(service, instanceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		res := healthRes{
			Status:      "pass",
			Version:     Version,
			Commit:      Commit,
			Description: service + " service",
			BuildTime:   BuildTime,
			InstanceID:  instanceID,
		}

		w.Header().Add("Content-Type", "application/health+json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(res); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}
