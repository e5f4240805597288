package transport

import (
	"net/http"

	"sales-inventory/internal/domain"
	"sales-inventory/internal/middleware"
	"sales-inventory/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CreatePartyRequest is the payload for a new customer or seller.
type CreatePartyRequest struct {
	Name       string `json:"name" validate:"required,max=100,personname"`
	NationalID string `json:"national_id" validate:"required,cpf"`
	Address    string `json:"address" validate:"omitempty,max=255"`
}

// UpdatePartyRequest carries the fields to change. Omitted fields keep
// their value.
type UpdatePartyRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=100,personname"`
	NationalID *string `json:"national_id" validate:"omitempty,cpf"`
	Address    *string `json:"address" validate:"omitempty,max=255"`
}

// PartyHandler serves customers or sellers under a common base path.
type PartyHandler struct {
	parties service.PartyService
	kind    domain.PartyKind
	logger  *zap.Logger
}

// NewPartyHandler creates a handler for parties of the given kind
func NewPartyHandler(parties service.PartyService, kind domain.PartyKind, logger *zap.Logger) *PartyHandler {
	return &PartyHandler{
		parties: parties,
		kind:    kind,
		logger:  logger.With(zap.String("party", string(kind))),
	}
}

// RegisterRoutes mounts the handler under /api/customers or /api/sellers.
func (h *PartyHandler) RegisterRoutes(r chi.Router, g Guards) {
	r.Route("/api/"+string(h.kind)+"s", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Get("/{ref}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(g.auth())
			r.Post("/", h.Create)
			r.Put("/{ref}", h.Update)
			r.Delete("/{ref}", h.Delete)
		})
	})
}

func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePartyRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	party, err := h.parties.Create(r.Context(), service.PartyInput{
		Name:       req.Name,
		NationalID: req.NationalID,
		Address:    req.Address,
	})
	if err != nil {
		respondError(w, h.logger, "Create "+string(h.kind), err)
		return
	}

	h.logger.Info("Party created", zap.String("id", party.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, party)
}

// Search lists parties whose name contains the name query parameter; an
// empty query lists all of them.
func (h *PartyHandler) Search(w http.ResponseWriter, r *http.Request) {
	parties, err := h.parties.Search(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondError(w, h.logger, "Search "+string(h.kind)+"s", err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, parties)
}

func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	party, err := h.parties.Get(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		respondError(w, h.logger, "Get "+string(h.kind), err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, party)
}

func (h *PartyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePartyRequest
	if !decode(w, r, h.logger, &req) {
		return
	}

	party, changes, err := h.parties.Update(r.Context(), chi.URLParam(r, "ref"), domain.PartyUpdate{
		Name:       req.Name,
		NationalID: req.NationalID,
		Address:    req.Address,
	})
	if err != nil {
		respondError(w, h.logger, "Update "+string(h.kind), err)
		return
	}

	h.logger.Info("Party updated", zap.String("id", party.ID.String()), zap.Int("changes", len(changes)))
	middleware.RespondWithJSON(w, http.StatusOK, UpdateResponse[*domain.Party]{Data: party, Changes: changes})
}

func (h *PartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	party, err := h.parties.Delete(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		respondError(w, h.logger, "Delete "+string(h.kind), err)
		return
	}

	h.logger.Info("Party deleted", zap.String("id", party.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, DeleteResponse[*domain.Party]{
		Message: string(h.kind) + " deleted",
		Deleted: party,
	})
}
