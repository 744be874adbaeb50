package handle

import (
	"encoding/json"
	"net/http"

	"dely-backend/internal/order/app/services"
	"dely-backend/internal/order/domain/dto"
	"dely-backend/pkg/logger"
)

type OrderHandler struct {
	orderService *services.OrderService
	mylog        logger.Logger
}

func NewOrderHandler(orderService *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		mylog:        mylog,
	}
}

// Create accepts a cart submission and returns the new order's id+number.
func (oh *OrderHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.OrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			oh.mylog.Action("parse_failed").Error("Failed to parse order request", err)
			jsonBadRequest(w)
			return
		}

		resp, err := oh.orderService.Create(r.Context(), req)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonSuccess(w, resp)
	}
}

// Status polls the status of one order by its id+number pair.
func (oh *OrderHandler) Status() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.StatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonBadRequest(w)
			return
		}

		status, err := oh.orderService.GetStatus(r.Context(), req.OrderID, req.OrderNumber)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonSuccess(w, dto.StatusResponse{OrderStatus: status})
	}
}

// Details returns the full order graph.
func (oh *OrderHandler) Details() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.DetailsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonBadRequest(w)
			return
		}

		details, err := oh.orderService.GetDetails(r.Context(), req.OrderID, req.OrderNumber)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonSuccess(w, details)
	}
}

// History resolves the client-kept list of past order references.
func (oh *OrderHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.HistoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonBadRequest(w)
			return
		}

		summaries, err := oh.orderService.GetHistory(r.Context(), req.OrderHistory)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonSuccess(w, summaries)
	}
}

// List returns a location's orders for staff.
func (oh *OrderHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.OrdersRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonBadRequest(w)
			return
		}

		orders, err := oh.orderService.List(r.Context(), req)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonSuccess(w, orders)
	}
}

// ChangeStatus sets an order's status on behalf of staff.
func (oh *OrderHandler) ChangeStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.ChangeStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonBadRequest(w)
			return
		}

		resp, err := oh.orderService.ChangeStatus(r.Context(), req)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonSuccess(w, resp)
	}
}

// SendTime announces a readiness ETA to the buyer.
func (oh *OrderHandler) SendTime() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dto.SendTimeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonBadRequest(w)
			return
		}

		resp, err := oh.orderService.SendTime(r.Context(), req)
		if err != nil {
			jsonError(w, err)
			return
		}
		jsonSuccess(w, resp)
	}
}
