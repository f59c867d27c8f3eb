package controllers

import (
	"fmt"
	"net/http"

	"github.com/KanoeWallet/Kanoe/internal/engine"
	"github.com/KanoeWallet/Kanoe/internal/models"
	"github.com/KanoeWallet/Kanoe/internal/providers"
	"github.com/shopspring/decimal"
)

// OperationsController serves the mutating surface. The acting account is
// taken from the X-Caller-Address header set by the fronting gateway.
type OperationsController struct {
	logger providers.Logger
	kanoe  engine.KanoeInterface
}

func NewOperationsController(logger providers.Logger, kanoe engine.KanoeInterface) *OperationsController {
	return &OperationsController{
		logger: logger,
		kanoe:  kanoe,
	}
}

// prepare resolves the caller and decodes the request body into dst.
func (oc *OperationsController) prepare(w http.ResponseWriter, r *http.Request, dst any) (models.Address, bool) {
	caller, err := callerFrom(r)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return "", false
	}
	if dst != nil {
		if err := decodeBody(w, r, dst); err != nil {
			writeError(w, r, oc.logger, err)
			return "", false
		}
	}
	return caller, true
}

type limitsRequest struct {
	SuccessorsMaxCount   uint64          `json:"successors_max_count"`
	InheritancesMaxCount uint64          `json:"inheritances_max_count"`
	TokensMaxCount       uint64          `json:"tokens_max_count"`
	StableMaxSum         decimal.Decimal `json:"stable_max_sum"`
	MaxWalletsCount      uint64          `json:"max_wallets_count"`
}

type addPlanRequest struct {
	Title    string          `json:"title"`
	PayToken string          `json:"pay_token"`
	Price    decimal.Decimal `json:"price"`
	Limits   limitsRequest   `json:"limits"`
}

type addPlanResponse struct {
	ID uint64 `json:"id"`
}

func (oc *OperationsController) AddPlan(w http.ResponseWriter, r *http.Request) {
	var req addPlanRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	payToken, err := models.ParseAddress(req.PayToken)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	limits := models.Limits{
		SuccessorsMaxCount:   req.Limits.SuccessorsMaxCount,
		InheritancesMaxCount: req.Limits.InheritancesMaxCount,
		TokensMaxCount:       req.Limits.TokensMaxCount,
		StableMaxSum:         req.Limits.StableMaxSum,
		MaxWalletsCount:      req.Limits.MaxWalletsCount,
	}
	id, err := oc.kanoe.AddPlan(r.Context(), caller, req.Title, payToken, req.Price, limits)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, addPlanResponse{ID: id})
}

type changeAllowedRequest struct {
	Controller string `json:"controller"`
	Allowed    bool   `json:"allowed"`
}

func (oc *OperationsController) ChangeAllowed(w http.ResponseWriter, r *http.Request) {
	var req changeAllowedRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	controller, err := models.ParseAddress(req.Controller)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	if err := oc.kanoe.ChangeAllowed(r.Context(), caller, controller, req.Allowed); err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type payRequest struct {
	PlanID       uint64 `json:"plan_id"`
	WalletsCount uint64 `json:"wallets_count"`
}

func (oc *OperationsController) Pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	sub, err := oc.kanoe.Pay(r.Context(), caller, req.PlanID, req.WalletsCount)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

type payExtendRequest struct {
	User string `json:"user"`
}

func (oc *OperationsController) PayExtend(w http.ResponseWriter, r *http.Request) {
	var req payExtendRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	user, err := models.ParseAddress(req.User)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	sub, err := oc.kanoe.PayExtend(r.Context(), caller, user)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

type reserveGasRequest struct {
	PaymentID uint64          `json:"payment_id"`
	Value     decimal.Decimal `json:"value"`
}

func (oc *OperationsController) ReserveGas(w http.ResponseWriter, r *http.Request) {
	var req reserveGasRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	record, err := oc.kanoe.ReserveGas(r.Context(), caller, req.PaymentID, req.Value)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

type inheritanceRequest struct {
	Owner       string          `json:"owner"`
	Limit       decimal.Decimal `json:"limit"`
	Tokens      []string        `json:"tokens"`
	Successors  []string        `json:"successors"`
	Percentages []uint64        `json:"percentages"`
}

func (oc *OperationsController) SendInheritance(w http.ResponseWriter, r *http.Request) {
	var req inheritanceRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	owner, err := models.ParseAddress(req.Owner)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	tokens, err := parseAddresses(req.Tokens)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	successors, err := parseAddresses(req.Successors)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	report, err := oc.kanoe.SendInheritance(r.Context(), caller, owner, req.Limit, tokens, successors, req.Percentages)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type nftCollectionRequest struct {
	Collection string   `json:"collection"`
	IDs        []uint64 `json:"ids"`
	Successors []string `json:"successors"`
}

type nftInheritanceRequest struct {
	Owner       string                 `json:"owner"`
	Collections []nftCollectionRequest `json:"collections"`
}

func (oc *OperationsController) SendInheritanceNft(w http.ResponseWriter, r *http.Request) {
	var req nftInheritanceRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	owner, err := models.ParseAddress(req.Owner)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	transfers := make([]models.NftCollectionTransfer, len(req.Collections))
	for i, c := range req.Collections {
		collection, err := models.ParseAddress(c.Collection)
		if err != nil {
			writeError(w, r, oc.logger, err)
			return
		}
		successors, err := parseAddresses(c.Successors)
		if err != nil {
			writeError(w, r, oc.logger, err)
			return
		}
		transfers[i] = models.NftCollectionTransfer{Collection: collection, IDs: c.IDs, Successors: successors}
	}
	report, err := oc.kanoe.SendInheritance721(r.Context(), caller, owner, transfers)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type approveRequest struct {
	Token   string          `json:"token"`
	Spender string          `json:"spender"`
	Amount  decimal.Decimal `json:"amount"`
}

// Approve, Transfer, ApproveAllNft and Balance operate on the bundled asset
// bank and are routed only in development mode.
func (oc *OperationsController) Approve(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	token, err := models.ParseAddress(req.Token)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	spender, err := models.ParseAddress(req.Spender)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	if err := oc.kanoe.Approve(r.Context(), caller, token, spender, req.Amount); err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type transferRequest struct {
	Token  string          `json:"token"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

func (oc *OperationsController) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	token, err := models.ParseAddress(req.Token)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	to, err := models.ParseAddress(req.To)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	if err := oc.kanoe.TransferToken(r.Context(), caller, token, to, req.Amount); err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type approveAllRequest struct {
	Collection string `json:"collection"`
	Operator   string `json:"operator"`
	Approved   bool   `json:"approved"`
}

func (oc *OperationsController) ApproveAllNft(w http.ResponseWriter, r *http.Request) {
	var req approveAllRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	collection, err := models.ParseAddress(req.Collection)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	operator, err := models.ParseAddress(req.Operator)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	if err := oc.kanoe.SetApprovalForAll(r.Context(), caller, collection, operator, req.Approved); err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type mintRequest struct {
	Token  string          `json:"token"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// Mint, MintNft and FundNative are the development faucet. The engine only
// accepts them from the admin.
func (oc *OperationsController) Mint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	token, err := models.ParseAddress(req.Token)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	to, err := models.ParseAddress(req.To)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	if err := oc.kanoe.MintToken(r.Context(), caller, token, to, req.Amount); err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type mintNftRequest struct {
	Collection string `json:"collection"`
	To         string `json:"to"`
	TokenID    uint64 `json:"token_id"`
}

func (oc *OperationsController) MintNft(w http.ResponseWriter, r *http.Request) {
	var req mintNftRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	collection, err := models.ParseAddress(req.Collection)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	to, err := models.ParseAddress(req.To)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	if err := oc.kanoe.MintNft(r.Context(), caller, collection, to, req.TokenID); err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type fundNativeRequest struct {
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

func (oc *OperationsController) FundNative(w http.ResponseWriter, r *http.Request) {
	var req fundNativeRequest
	caller, ok := oc.prepare(w, r, &req)
	if !ok {
		return
	}
	to, err := models.ParseAddress(req.To)
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	if err := oc.kanoe.FundNative(r.Context(), caller, to, req.Amount); err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type balanceResponse struct {
	Token   models.Address  `json:"token"`
	Owner   models.Address  `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

func (oc *OperationsController) Balance(w http.ResponseWriter, r *http.Request) {
	token, err := queryAddress(r, "token")
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	owner, err := queryAddress(r, "owner")
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	balance, err := oc.kanoe.BalanceOf(r.Context(), token, owner)
	if err != nil {
		writeError(w, r, oc.logger, fmt.Errorf("balance of %s: %w", owner, err))
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{Token: token, Owner: owner, Balance: balance})
}

type nativeBalanceResponse struct {
	Owner   models.Address  `json:"owner"`
	Balance decimal.Decimal `json:"balance"`
}

func (oc *OperationsController) NativeBalance(w http.ResponseWriter, r *http.Request) {
	owner, err := queryAddress(r, "owner")
	if err != nil {
		writeError(w, r, oc.logger, err)
		return
	}
	balance, err := oc.kanoe.NativeBalance(r.Context(), owner)
	if err != nil {
		writeError(w, r, oc.logger, fmt.Errorf("native balance of %s: %w", owner, err))
		return
	}
	writeJSON(w, http.StatusOK, nativeBalanceResponse{Owner: owner, Balance: balance})
}
