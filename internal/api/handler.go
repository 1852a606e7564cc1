package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"medimanager/m/domain"
	"medimanager/m/internal/billing"
	"medimanager/m/internal/store"
)

// Handler bundles dependencies for HTTP handlers. It is a translation layer
// only; all business rules live in the stores and the billing service.
type Handler struct {
	medicines *store.MedicineStore
	bills     *store.BillStore
	billing   *billing.Service
}

// New constructs a Handler.
func New(medicines *store.MedicineStore, bills *store.BillStore, billingSvc *billing.Service) *Handler {
	return &Handler{medicines: medicines, bills: bills, billing: billingSvc}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/medicines", func(r chi.Router) {
		r.Post("/", h.addMedicine)
		r.Get("/", h.listMedicines)
		r.Get("/search", h.searchMedicines)
		r.Get("/lowstock", h.lowStock)
		r.Get("/expiring", h.expiringSoon)
		r.Put("/{id}", h.updateMedicine)
		r.Delete("/{id}", h.deleteMedicine)
	})

	r.Route("/billing", func(r chi.Router) {
		r.Post("/", h.createBill)
		r.Get("/", h.listBills)
		r.Get("/{id}", h.getBill)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Medicine handlers

func (h *Handler) addMedicine(w http.ResponseWriter, r *http.Request) {
	var med domain.Medicine
	if err := decodeJSON(r, &med); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.medicines.Add(r.Context(), med)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add medicine")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var med domain.Medicine
	if err := decodeJSON(r, &med); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.medicines.Update(r.Context(), id, med)
	if errors.Is(err, domain.ErrMedicineNotFound) {
		respondError(w, http.StatusNotFound, "medicine not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update medicine")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	// Idempotent: deleting a missing id succeeds.
	if err := h.medicines.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete medicine")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.medicines.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) searchMedicines(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		respondError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}
	medicines, err := h.medicines.SearchByName(r.Context(), name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to search medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold := int64(5)
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "threshold must be an integer")
			return
		}
		threshold = parsed
	}
	medicines, err := h.medicines.LowStock(r.Context(), threshold)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch low stock medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) expiringSoon(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = parsed
	}
	medicines, err := h.medicines.ExpiringSoon(r.Context(), days)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch expiring medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

// Billing handlers

type billItemRequest struct {
	Quantity int64 `json:"quantity"`
	Medicine struct {
		ID int64 `json:"id"`
	} `json:"medicine"`
}

func (h *Handler) createBill(w http.ResponseWriter, r *http.Request) {
	var req []billItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	requested := make([]domain.BillItem, len(req))
	for i, item := range req {
		requested[i] = domain.BillItem{
			Quantity: item.Quantity,
			Medicine: &domain.Medicine{ID: item.Medicine.ID},
		}
	}

	bill, err := h.billing.CreateBill(r.Context(), requested)
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrMedicineNotFound):
		respondError(w, http.StatusNotFound, "medicine not found")
	case errors.As(err, &insufficient):
		respondError(w, http.StatusConflict, insufficient.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, "unable to create bill")
	default:
		respondJSON(w, http.StatusCreated, bill)
	}
}

func (h *Handler) listBills(w http.ResponseWriter, r *http.Request) {
	bills, err := h.bills.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list bills")
		return
	}
	respondJSON(w, http.StatusOK, bills)
}

func (h *Handler) getBill(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bill id")
		return
	}
	bill, err := h.bills.GetByID(r.Context(), id)
	if errors.Is(err, domain.ErrBillNotFound) {
		respondError(w, http.StatusNotFound, "bill not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load bill")
		return
	}
	respondJSON(w, http.StatusOK, bill)
}

// Helpers

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
