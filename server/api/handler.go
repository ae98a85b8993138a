package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/chaintrack-network/chaintrack/x/monitor"
	"github.com/chaintrack-network/chaintrack/x/syncprogress"
	"github.com/chaintrack-network/chaintrack/x/timeinterp"
	"github.com/chaintrack-network/chaintrack/x/timequery"
	"github.com/chaintrack-network/chaintrack/x/tipsource"
)

// Handler serves the sync-status and slot-time surface.
type Handler struct {
	mon *monitor.Monitor
	it  *timeinterp.Interpreter
	log zerolog.Logger
}

// NewHandler creates the API handler.
func NewHandler(mon *monitor.Monitor, it *timeinterp.Interpreter, log zerolog.Logger) *Handler {
	return &Handler{
		mon: mon,
		it:  it,
		log: log.With().Str("component", "api-handler").Logger(),
	}
}

// RegisterMux attaches the handler's routes.
func (h *Handler) RegisterMux(r *mux.Router) {
	r.HandleFunc("/v1/sync", h.handleSync).Methods(http.MethodGet)
	r.HandleFunc("/v1/slots/{slot}/time", h.handleSlotTime).Methods(http.MethodGet)
}

type syncResponse struct {
	Sync      syncprogress.SyncProgress `json:"sync"`
	Tip       *tipsource.ChainTip       `json:"tip,omitempty"`
	Tolerance string                    `json:"tolerance"`
}

func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	prog, tip, hasTip := h.mon.Current()

	resp := syncResponse{
		Sync:      prog,
		Tolerance: h.mon.Tolerance().String(),
	}
	if hasTip {
		resp.Tip = &tip
	}

	WriteJSON(w, http.StatusOK, resp)
}

type slotTimeResponse struct {
	Slot         timequery.SlotNo `json:"slot"`
	RelativeTime string           `json:"relative_time"`
	WallTime     time.Time        `json:"wall_time"`
}

func (h *Handler) handleSlotTime(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["slot"]
	slotNum, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_slot", "slot must be a non-negative integer", nil)
		return
	}
	slot := timequery.SlotNo(slotNum)

	// One composite query resolves both views of the slot's time against a
	// single era snapshot.
	q := timequery.Bind(timequery.SlotToRelativeTime(slot), func(rel timequery.RelativeTime) timequery.Qry[slotTimeResponse] {
		return timequery.Map(timequery.ChainStart(), func(start timequery.StartTime) slotTimeResponse {
			return slotTimeResponse{
				Slot:         slot,
				RelativeTime: rel.String(),
				WallTime:     start.Time().Add(time.Duration(rel)),
			}
		})
	})

	resp, err := timeinterp.Interpret(r.Context(), h.it, q)
	if err != nil {
		if timequery.IsPastHorizon(err) {
			WriteError(w, r, http.StatusConflict, "past_horizon",
				"slot is past the known era horizon", map[string]any{"slot": slot})
			return
		}
		h.log.Error().Err(err).Uint64("slot", slotNum).Msg("slot time query failed")
		WriteError(w, r, http.StatusInternalServerError, "internal_error", "slot time query failed", nil)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
