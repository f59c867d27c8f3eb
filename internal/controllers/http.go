package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/KanoeWallet/Kanoe/internal/assets"
	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	json "github.com/goccy/go-json"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	callerHeader       = "X-Caller-Address"
)

var errMissingCaller = errors.New("missing " + callerHeader + " header")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errMissingCaller):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrPlanNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSubscriptionNotActive),
		errors.Is(err, models.ErrTransferFailed),
		errors.Is(err, models.ErrPaymentIdOutOfOrder),
		errors.Is(err, assets.ErrInsufficientBalance),
		errors.Is(err, assets.ErrInsufficientAllowance),
		errors.Is(err, assets.ErrNotOwner),
		errors.Is(err, assets.ErrNotApproved),
		errors.Is(err, assets.ErrTokenExists):
		return http.StatusConflict
	case errors.Is(err, models.ErrLimitExceeded),
		errors.Is(err, models.ErrInvalidPercentageSum):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidArgument),
		errors.Is(err, assets.ErrInvalidAmount),
		errors.Is(err, assets.ErrZeroAddress),
		errors.Is(err, assets.ErrTokenNotFound):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, logger providers.Logger, err error) {
	status := statusFor(err)
	logType := providers.GetLogTypeByRequestType(r.Method)
	if status >= http.StatusInternalServerError {
		logger.Errorf(logType, "%s %s: %s", r.Method, r.URL.Path, err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	logger.Debugf(logType, "%s %s rejected with %d: %s", r.Method, r.URL.Path, status, err)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", models.ErrInvalidArgument)
	}
	return nil
}

func callerFrom(r *http.Request) (models.Address, error) {
	raw := r.Header.Get(callerHeader)
	if raw == "" {
		return "", errMissingCaller
	}
	return models.ParseAddress(raw)
}

func queryUint(r *http.Request, name string, def uint64) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", models.ErrInvalidArgument, name)
	}
	return v, nil
}

func queryAddress(r *http.Request, name string) (models.Address, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", fmt.Errorf("%w: %s is required", models.ErrInvalidArgument, name)
	}
	return models.ParseAddress(raw)
}

func parseAddresses(raw []string) ([]models.Address, error) {
	out := make([]models.Address, len(raw))
	for i, s := range raw {
		a, err := models.ParseAddress(s)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}
