package handlers

import (
	"context"
	"net/http"

	"github.com/ecolehub/sel/internal/models"
	"go.uber.org/zap"
)

type Analytics interface {
	SELAnalytics(ctx context.Context) (*models.Analytics, error)
}

type AnalyticsHandler struct {
	analytics Analytics
	log       *zap.Logger
}

func NewAnalyticsHandler(analytics Analytics, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log}
}

// GetAnalytics returns exchange-wide statistics
// @Summary SEL analytics
// @Description Transactions per status, service category popularity and monthly volume
// @Tags sel
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Analytics
// @Router /sel/analytics [get]
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireMember(w, r); !ok {
		return
	}

	report, err := h.analytics.SELAnalytics(r.Context())
	if err != nil {
		sendServiceError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
