package controllers

import (
	"fmt"
	"net/http"

	"github.com/KanoeWallet/Kanoe/internal/engine"
	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	json "github.com/goccy/go-json"
)

const defaultPlansPageSize = 50

// ApiController serves the read surface. Cache keys carry the engine state
// version, so every successful mutation retires the previous entries.
type ApiController struct {
	logger providers.Logger
	kanoe  engine.KanoeInterface
	cache  providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, kanoe engine.KanoeInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger: logger,
		kanoe:  kanoe,
		cache:  cache,
	}
}

func (ac *ApiController) cacheKey(format string, args ...any) string {
	return fmt.Sprintf("v%d:", ac.kanoe.StateVersion()) + fmt.Sprintf(format, args...)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, r *http.Request, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) GetPlans(w http.ResponseWriter, r *http.Request) {
	offset, err := queryUint(r, "offset", 0)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	count, err := queryUint(r, "count", defaultPlansPageSize)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("plans:%d:%d", offset, count), func() (any, error) {
		return ac.kanoe.GetPlansList(offset, count), nil
	})
}

func (ac *ApiController) GetPlan(w http.ResponseWriter, r *http.Request) {
	id, err := queryUint(r, "id", 0)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("plan:%d", id), func() (any, error) {
		return ac.kanoe.GetPlanById(id)
	})
}

func (ac *ApiController) GetSubscription(w http.ResponseWriter, r *http.Request) {
	user, err := queryAddress(r, "user")
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("sub:%s", user), func() (any, error) {
		return ac.kanoe.GetUserSubscription(user), nil
	})
}

func (ac *ApiController) GetSubscriptionUpdates(w http.ResponseWriter, r *http.Request) {
	from, err := queryUint(r, "from", 0)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("subs:%d", from), func() (any, error) {
		return ac.kanoe.GetSubscriptionUpdates(from), nil
	})
}

func (ac *ApiController) GetEscrowUpdates(w http.ResponseWriter, r *http.Request) {
	from, err := queryUint(r, "from", 0)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("escrow:%d", from), func() (any, error) {
		return ac.kanoe.GetEscrowUpdates(from), nil
	})
}

type maxPaymentIdResponse struct {
	MaxPaymentId uint64 `json:"max_payment_id"`
}

func (ac *ApiController) GetMaxPaymentId(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, r, ac.cacheKey("escrow:max"), func() (any, error) {
		return maxPaymentIdResponse{MaxPaymentId: ac.kanoe.GetMaxPaymentId()}, nil
	})
}

type checkInfoRequest struct {
	User   string   `json:"user"`
	Tokens []string `json:"tokens"`
}

// CheckApprovals reports how much of each token the distributor may move for the user.
func (ac *ApiController) CheckApprovals(w http.ResponseWriter, r *http.Request) {
	var req checkInfoRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	user, err := models.ParseAddress(req.User)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	tokens, err := parseAddresses(req.Tokens)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	infos, err := ac.kanoe.CheckInfo(r.Context(), user, tokens)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

type nftCheckRequest struct {
	User        string   `json:"user"`
	Collections []string `json:"collections"`
}

func (ac *ApiController) CheckNftCollections(w http.ResponseWriter, r *http.Request) {
	var req nftCheckRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	user, err := models.ParseAddress(req.User)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	collections, err := parseAddresses(req.Collections)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	infos, err := ac.kanoe.CheckNftCollectionShortInfo(r.Context(), user, collections)
	if err != nil {
		writeError(w, r, ac.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}
