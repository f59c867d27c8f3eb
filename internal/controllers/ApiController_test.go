package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userHex  = "0x00000000000000000000000000000000000000a1"
	tokenHex = "0x00000000000000000000000000000000000000e1"
)

func testPlans() []*models.Plan {
	token := models.MustAddress(tokenHex)
	return []*models.Plan{
		{ID: 1, Title: "Starter", PayToken: token, Price: decimal.NewFromInt(15000000)},
		{ID: 2, Title: "Basic", PayToken: token, Price: decimal.NewFromInt(25000000)},
		{ID: 3, Title: "Standart", PayToken: token, Price: decimal.NewFromInt(50000000)},
	}
}

func newTestController(k *mockKanoe, cache *mockCache) *ApiController {
	return NewApiController(&mockLogger{}, k, cache)
}

func TestGetPlans_Pagination(t *testing.T) {
	k := &mockKanoe{plans: testPlans()}
	ac := newTestController(k, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/plans?offset=1&count=5", nil)
	rr := httptest.NewRecorder()
	ac.GetPlans(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var plans []models.Plan
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plans))
	require.Len(t, plans, 2)
	assert.Equal(t, "Basic", plans[0].Title)
	assert.True(t, plans[1].Price.Equal(decimal.NewFromInt(50000000)))
}

func TestGetPlans_InvalidOffset(t *testing.T) {
	ac := newTestController(&mockKanoe{}, newMockCache())

	req := httptest.NewRequest(http.MethodGet, "/plans?offset=-1", nil)
	rr := httptest.NewRecorder()
	ac.GetPlans(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetPlans_CachedPerStateVersion(t *testing.T) {
	k := &mockKanoe{plans: testPlans(), version: 1}
	cache := newMockCache()
	ac := newTestController(k, cache)

	for range 2 {
		rr := httptest.NewRecorder()
		ac.GetPlans(rr, httptest.NewRequest(http.MethodGet, "/plans", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
	assert.Equal(t, 1, k.planCalls)
	assert.Contains(t, cache.data, "v1:plans:0:50")

	k.version = 2
	rr := httptest.NewRecorder()
	ac.GetPlans(rr, httptest.NewRequest(http.MethodGet, "/plans", nil))
	assert.Equal(t, 2, k.planCalls)
	assert.Contains(t, cache.data, "v2:plans:0:50")
}

func TestGetPlan_Found(t *testing.T) {
	ac := newTestController(&mockKanoe{plans: testPlans()}, newMockCache())

	rr := httptest.NewRecorder()
	ac.GetPlan(rr, httptest.NewRequest(http.MethodGet, "/plan?id=2", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var plan models.Plan
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &plan))
	assert.Equal(t, uint64(2), plan.ID)
}

func TestGetPlan_NotFound(t *testing.T) {
	cache := newMockCache()
	ac := newTestController(&mockKanoe{plans: testPlans()}, cache)

	rr := httptest.NewRecorder()
	ac.GetPlan(rr, httptest.NewRequest(http.MethodGet, "/plan?id=9", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "plan not found")
	assert.Empty(t, cache.data)
}

func TestGetSubscription(t *testing.T) {
	user := models.MustAddress(userHex)
	k := &mockKanoe{subscription: models.Subscription{User: user, PlanID: 2, WalletsCount: 1, Revision: 3}}
	ac := newTestController(k, newMockCache())

	rr := httptest.NewRecorder()
	ac.GetSubscription(rr, httptest.NewRequest(http.MethodGet, "/subscription?user="+userHex, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var sub models.Subscription
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &sub))
	assert.Equal(t, user, sub.User)
	assert.Equal(t, uint64(2), sub.PlanID)
}

func TestGetSubscription_MissingUser(t *testing.T) {
	ac := newTestController(&mockKanoe{}, newMockCache())

	rr := httptest.NewRecorder()
	ac.GetSubscription(rr, httptest.NewRequest(http.MethodGet, "/subscription", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetSubscription_MalformedUser(t *testing.T) {
	ac := newTestController(&mockKanoe{}, newMockCache())

	rr := httptest.NewRecorder()
	ac.GetSubscription(rr, httptest.NewRequest(http.MethodGet, "/subscription?user=0x12", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetSubscriptionUpdates(t *testing.T) {
	user := models.MustAddress(userHex)
	k := &mockKanoe{subUpdates: []*models.Subscription{{User: user, Revision: 4}, {User: user, Revision: 5}}}
	ac := newTestController(k, newMockCache())

	rr := httptest.NewRecorder()
	ac.GetSubscriptionUpdates(rr, httptest.NewRequest(http.MethodGet, "/subscriptions/updates?from=4", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var subs []models.Subscription
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &subs))
	assert.Len(t, subs, 2)
}

func TestGetEscrowUpdatesAndMaxId(t *testing.T) {
	user := models.MustAddress(userHex)
	k := &mockKanoe{
		escrow:       []*models.EscrowRecord{{ID: 3, Payer: user, Amount: decimal.NewFromInt(5)}},
		maxPaymentId: 3,
	}
	ac := newTestController(k, newMockCache())

	rr := httptest.NewRecorder()
	ac.GetEscrowUpdates(rr, httptest.NewRequest(http.MethodGet, "/escrow/updates?from=0", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	var records []models.EscrowRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(5)))

	rr = httptest.NewRecorder()
	ac.GetMaxPaymentId(rr, httptest.NewRequest(http.MethodGet, "/escrow/max-id", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"max_payment_id":3}`, rr.Body.String())
}

func TestCheckApprovals(t *testing.T) {
	k := &mockKanoe{}
	ac := newTestController(k, newMockCache())

	body := `{"user":"` + userHex + `","tokens":["` + tokenHex + `"]}`
	rr := httptest.NewRecorder()
	ac.CheckApprovals(rr, httptest.NewRequest(http.MethodPost, "/approvals/check", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, k.checkTokens, 1)
	assert.Equal(t, models.MustAddress(tokenHex), k.checkTokens[0])
}

func TestCheckApprovals_InvalidJSON(t *testing.T) {
	ac := newTestController(&mockKanoe{}, newMockCache())

	rr := httptest.NewRecorder()
	ac.CheckApprovals(rr, httptest.NewRequest(http.MethodPost, "/approvals/check", strings.NewReader("not json")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckApprovals_OversizedBody(t *testing.T) {
	ac := newTestController(&mockKanoe{}, newMockCache())

	big := strings.Repeat("x", maxRequestBodySize+1)
	rr := httptest.NewRecorder()
	ac.CheckApprovals(rr, httptest.NewRequest(http.MethodPost, "/approvals/check", strings.NewReader(big)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckNftCollections(t *testing.T) {
	ac := newTestController(&mockKanoe{}, newMockCache())

	body := `{"user":"` + userHex + `","collections":["` + tokenHex + `"]}`
	rr := httptest.NewRecorder()
	ac.CheckNftCollections(rr, httptest.NewRequest(http.MethodPost, "/nft/check", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, rr.Code)
	var infos []models.NftCollectionInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &infos))
	require.Len(t, infos, 1)
	assert.True(t, infos[0].IsApproved)
}
