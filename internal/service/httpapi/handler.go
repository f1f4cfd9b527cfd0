// Package httpapi отдаёт каталог заказов по HTTP только для чтения.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

// Handler обслуживает /orders и /orders/{id}.
type Handler struct {
	repo   domain.OrderRepository
	logger *log.Entry
}

type errorResponse struct {
	Error string `json:"error"`
}

type listResponse struct {
	Count  int             `json:"count"`
	Orders []*domain.Order `json:"orders"`
}

// NewHandler создаёт обработчик поверх repo.
func NewHandler(repo domain.OrderRepository, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Handler{repo: repo, logger: logger}
}

// Register добавляет маршруты каталога в router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/orders", h.listOrders).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)
}

// Router возвращает новый mux.Router с маршрутами каталога.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.Register(r)
	return r
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.All(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	writeJSON(w, http.StatusOK, listResponse{Count: len(orders), Orders: orders})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: domain.ErrInvalidOrderID.Error()})
		return
	}

	order, err := h.repo.Find(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, order)
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.WithError(err).WithFields(log.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Error("order request failed")
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
