package internal

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KanoeWallet/Kanoe/internal/assets"
	"github.com/KanoeWallet/Kanoe/internal/controllers"
	"github.com/KanoeWallet/Kanoe/internal/engine"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	"github.com/KanoeWallet/Kanoe/internal/services"
	"github.com/KanoeWallet/Kanoe/internal/structures"
	"github.com/KanoeWallet/Kanoe/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminHex       = "0x00000000000000000000000000000000000000ad"
	serverHex      = "0x000000000000000000000000000000000000005e"
	controllerHex  = "0x00000000000000000000000000000000000000c0"
	holderHex      = "0x00000000000000000000000000000000000000ff"
	stableHex      = "0x00000000000000000000000000000000000000a0"
	distributorHex = "0x00000000000000000000000000000000000000d1"
	userHex        = "0x0000000000000000000000000000000000000001"
	successorHex   = "0x0000000000000000000000000000000000000011"
	nftHex         = "0x00000000000000000000000000000000000000b2"
)

func routeTestConfig(dev bool) *structures.Config {
	return &structures.Config{
		AppName: "Kanoe",
		Billing: structures.BillingConfig{
			ControllerAddress: controllerHex,
			PaymentHolder:     holderHex,
		},
		Distributor: structures.DistributorConfig{
			Address:      distributorHex,
			EscrowWallet: holderHex,
		},
		Roles: structures.RolesConfig{Admin: adminHex, Server: serverHex},
		Development: structures.DevelopmentConfig{
			Enabled:      dev,
			StableToken:  stableHex,
			StableSupply: "1000000000",
		},
		Plans: []structures.PlanConfig{
			{Title: "Starter", PayToken: stableHex, Price: "15000000", Limits: structures.PlanLimitsConfig{SuccessorsMaxCount: 2, TokensMaxCount: 2, MaxWalletsCount: 1}},
			{Title: "Basic", PayToken: stableHex, Price: "25000000", Limits: structures.PlanLimitsConfig{SuccessorsMaxCount: 3, MaxWalletsCount: 1}},
		},
	}
}

func newRouteTestHandler(t *testing.T, conf *structures.Config) http.Handler {
	t.Helper()
	logger := &testutil.MockLogger{}
	metrics := &testutil.MockMetrics{}
	kanoe, err := engine.NewKanoe(conf, assets.NewMemoryBank(), logger, metrics, services.SystemClock())
	require.NoError(t, err)
	require.NoError(t, kanoe.Bootstrap(t.Context()))

	api := controllers.NewApiController(logger, kanoe, providers.NewCacheProvider(conf, logger))
	ops := controllers.NewOperationsController(logger, kanoe)
	router := InitRoutes(api, ops, conf)
	return NewHandler(controllers.NewHealthController(kanoe), conf, router, metrics)
}

func patterns(router providers.RouterProviderInterface) []string {
	routes := router.GetRoutes()
	out := make([]string, len(routes))
	for i, r := range routes {
		out[i] = r.Pattern()
	}
	return out
}

func TestInitRoutes_DevelopmentRoutesOnlyWhenEnabled(t *testing.T) {
	prod := patterns(InitRoutes(&controllers.ApiController{}, &controllers.OperationsController{}, routeTestConfig(false)))
	dev := patterns(InitRoutes(&controllers.ApiController{}, &controllers.OperationsController{}, routeTestConfig(true)))

	assert.Len(t, prod, 15)
	assert.Len(t, dev, 23)
	assert.Contains(t, prod, "GET /plans")
	assert.Contains(t, prod, "POST /plans")
	assert.Contains(t, prod, "POST /inheritance/nft")
	assert.NotContains(t, prod, "POST /assets/approve")
	assert.Contains(t, dev, "POST /assets/approve")
	assert.Contains(t, dev, "GET /assets/balance")
	assert.Contains(t, dev, "POST /assets/native/fund")
	assert.Contains(t, dev, "POST /assets/nft/mint")
	assert.NotContains(t, prod, "POST /assets/mint")
}

func TestHandler_MethodEnforcement(t *testing.T) {
	h := newRouteTestHandler(t, routeTestConfig(false))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/escrow/max-id", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/pay", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandler_HealthAndSeededPlans(t *testing.T) {
	h := newRouteTestHandler(t, routeTestConfig(false))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"plans":2`)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/plans", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Starter")
	assert.Contains(t, rr.Body.String(), "Basic")
}

func TestHandler_PayFlowInDevelopmentMode(t *testing.T) {
	h := newRouteTestHandler(t, routeTestConfig(true))

	do := func(method, url, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("X-Caller-Address", adminHex)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	rr := do(http.MethodPost, "/pay", `{"plan_id":1,"wallets_count":1}`)
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	rr = do(http.MethodPost, "/assets/approve", `{"token":"`+stableHex+`","spender":"`+controllerHex+`","amount":"15000000"}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = do(http.MethodPost, "/pay", `{"plan_id":1,"wallets_count":1}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = do(http.MethodGet, "/subscription?user="+adminHex, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"plan_id":1`)

	rr = do(http.MethodGet, "/assets/balance?token="+stableHex+"&owner="+holderHex, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"balance":"15000000"`)
}

func callAs(h http.Handler, from string) func(method, url, body string) *httptest.ResponseRecorder {
	return func(method, url, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("X-Caller-Address", from)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}
}

func TestHandler_ReserveGasInDevelopmentMode(t *testing.T) {
	h := newRouteTestHandler(t, routeTestConfig(true))
	admin := callAs(h, adminHex)
	user := callAs(h, userHex)

	rr := admin(http.MethodPost, "/escrow/reserve", `{"payment_id":1,"value":"400"}`)
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	rr = user(http.MethodPost, "/assets/native/fund", `{"to":"`+userHex+`","amount":"1000"}`)
	assert.Equal(t, http.StatusForbidden, rr.Code, rr.Body.String())

	rr = admin(http.MethodPost, "/assets/native/fund", `{"to":"`+userHex+`","amount":"1000"}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = user(http.MethodPost, "/escrow/reserve", `{"payment_id":1,"value":"400"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	rr = user(http.MethodPost, "/escrow/reserve", `{"payment_id":2,"value":"100"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = user(http.MethodGet, "/escrow/max-id", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"max_payment_id":2`)

	rr = user(http.MethodGet, "/assets/native/balance?owner="+holderHex, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"balance":"500"`)

	rr = user(http.MethodGet, "/assets/native/balance?owner="+userHex, "")
	assert.Contains(t, rr.Body.String(), `"balance":"500"`)
}

func TestHandler_NftInheritanceInDevelopmentMode(t *testing.T) {
	h := newRouteTestHandler(t, routeTestConfig(true))
	admin := callAs(h, adminHex)
	user := callAs(h, userHex)
	server := callAs(h, serverHex)

	for _, body := range []string{
		`{"collection":"` + nftHex + `","to":"` + userHex + `","token_id":1}`,
		`{"collection":"` + nftHex + `","to":"` + userHex + `","token_id":2}`,
	} {
		rr := admin(http.MethodPost, "/assets/nft/mint", body)
		require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())
	}
	rr := admin(http.MethodPost, "/assets/nft/mint", `{"collection":"`+nftHex+`","to":"`+userHex+`","token_id":1}`)
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())

	payload := `{"owner":"` + userHex + `","collections":[{"collection":"` + nftHex + `","ids":[2],"successors":["` + successorHex + `"]}]}`

	rr = server(http.MethodPost, "/inheritance/nft", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"skipped":["`+nftHex+`"]`)

	rr = user(http.MethodPost, "/assets/nft/approve-all", `{"collection":"`+nftHex+`","operator":"`+distributorHex+`","approved":true}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = server(http.MethodPost, "/inheritance/nft", payload)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"successor":"`+successorHex+`"`)
	assert.Contains(t, rr.Body.String(), `"skipped":[]`)
}
