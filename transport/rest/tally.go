package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/conquest-backend/internal/entity"
)

type tallyUseCase interface {
	GetTally(ctx context.Context) (*entity.Tally, error)
}

type tallyHandler struct {
	logger *slog.Logger
	tally  tallyUseCase
}

func (that *tallyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "tallyHandler")

	tally, err := that.tally.GetTally(r.Context())
	if err != nil {
		log.Error("failed to get tally", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(tally); err != nil {
		log.Error("failed to write tally", "error", err)
	}
}
