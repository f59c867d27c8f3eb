package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/KanoeWallet/Kanoe/internal/providers"
	json "github.com/goccy/go-json"
)

type HealthController struct {
	state     providers.StateSourceInterface
	startTime time.Time
}

type healthResponse struct {
	Status         string  `json:"status"`
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	StateVersion   uint64  `json:"state_version"`
	Plans          int     `json:"plans"`
	LedgerRevision uint64  `json:"ledger_revision"`
	MaxPaymentId   uint64  `json:"max_payment_id"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:         "ok",
		Uptime:         formatDuration(uptime),
		UptimeSeconds:  uptime.Seconds(),
		StateVersion:   hc.state.StateVersion(),
		Plans:          hc.state.PlansCount(),
		LedgerRevision: hc.state.LedgerRevision(),
		MaxPaymentId:   hc.state.GetMaxPaymentId(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(state providers.StateSourceInterface) *HealthController {
	return &HealthController{
		state:     state,
		startTime: time.Now(),
	}
}
