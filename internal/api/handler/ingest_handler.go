package handler

import (
	"context"
	"log/slog"
	"net/http"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/config"
	"credit-engine/internal/ingest"
)

type IngestHandler struct {
	service *ingest.Service
	cfg     config.IngestConfig
	logger  *slog.Logger
}

func NewIngestHandler(service *ingest.Service, cfg config.IngestConfig, l *slog.Logger) *IngestHandler {
	if service == nil {
		panic("ingest service cannot be nil")
	}
	return &IngestHandler{
		service: service,
		cfg:     cfg,
		logger:  l.With("component", "IngestHandler"),
	}
}

// TriggerIngest handles POST /ingest
// @Summary Trigger historical data ingestion
// @Description Starts a background import of the configured customer and loan CSV files. Returns immediately; progress is reported through logs and metrics.
// @Tags Ingestion
// @Produce json
// @Success 202 {object} dto.IngestResponse "Ingestion accepted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /ingest [post]
// @Security BearerAuth
func (h *IngestHandler) TriggerIngest(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "Ingestion triggered",
		slog.String("customerFile", h.cfg.CustomerFile),
		slog.String("loanFile", h.cfg.LoanFile),
	)

	// Decoupled from the request context so the import survives the response.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.cfg.Timeout)
		defer cancel()

		sum, err := h.service.Run(ctx)
		if err != nil {
			h.logger.Error("Ingestion run failed", slog.Any("error", err))
			return
		}
		h.logger.Info("Ingestion run completed",
			slog.Int("customers", sum.CustomersUpserted),
			slog.Int("loans", sum.LoansUpserted),
			slog.Int("errors", len(sum.Errors)),
		)
	}()

	respondJSON(w, http.StatusAccepted, dto.IngestResponse{Message: "ingestion started"})
}
