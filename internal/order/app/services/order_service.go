package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"dely-backend/internal/auth"
	"dely-backend/internal/location"
	"dely-backend/internal/notification"
	"dely-backend/internal/order/app/core"
	"dely-backend/internal/order/domain/dto"
	"dely-backend/internal/order/domain/models"
	"dely-backend/pkg/logger"
	"dely-backend/pkg/money"
	"dely-backend/pkg/rabbitmq"
	"dely-backend/pkg/schedule"
)

// OrderService orchestrates the order lifecycle: submission, status
// transitions, readiness ETA and the read paths. Notification jobs are
// enqueued after the triggering write succeeds and never fail the request.
type OrderService struct {
	orderRepo core.OrderRepo
	locations core.LocationStore
	verifier  core.TokenVerifier
	users     core.UserDirectory
	jobs      core.JobPublisher
	mylog     logger.Logger
	now       func() time.Time
}

func NewOrderService(
	orderRepo core.OrderRepo,
	locations core.LocationStore,
	verifier core.TokenVerifier,
	users core.UserDirectory,
	jobs core.JobPublisher,
	mylog logger.Logger,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		locations: locations,
		verifier:  verifier,
		users:     users,
		jobs:      jobs,
		mylog:     mylog,
		now:       time.Now,
	}
}

// Create validates a cart submission, gates it on the location's operating
// hours, persists the order graph atomically and enqueues the new-order
// alert for the location's staff.
func (s *OrderService) Create(ctx context.Context, req dto.OrderRequest) (dto.OrderResponse, error) {
	fields := validateContact(req.DeliveryMethodDetails)
	lines, delivery, cartFields := validateCart(req.ShoppingCartItems, req.DeliveryPrice)
	fields = append(fields, cartFields...)
	if err := core.Validation(fields); err != nil {
		return dto.OrderResponse{}, err
	}

	loc, err := s.locations.Get(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, location.ErrNotFound) {
			return dto.OrderResponse{}, core.ErrLocationNotFound
		}
		return dto.OrderResponse{}, err
	}

	st, err := schedule.Evaluate(loc.Hours, loc.TimeZone, s.now())
	if err != nil {
		return dto.OrderResponse{}, err
	}
	if !st.Open {
		return dto.OrderResponse{}, core.ErrLocationClosed
	}

	total := money.Total(lines, delivery)

	newOrder := core.NewOrder{
		LocationID:     req.LocationID,
		Currency:       strings.TrimSpace(req.Currency),
		TotalPrice:     total.String(),
		DeliveryMethod: req.DeliveryMethodDetails.DeliveryMethod,
		DeliveryPrice:  delivery.String(),
		BuyerName:      req.DeliveryMethodDetails.Name,
		PhoneNumber:    req.DeliveryMethodDetails.PhoneNumber,
		Address:        req.DeliveryMethodDetails.Address,
		DoorCode:       req.DeliveryMethodDetails.DoorCode,
		PushToken:      req.PushToken,
		Language:       strings.TrimSpace(req.Language),
	}
	for _, item := range req.ShoppingCartItems {
		newItem := core.NewItem{Title: item.Title, Price: item.Price, Count: item.Count}
		for _, opt := range item.Options {
			newItem.Options = append(newItem.Options, core.NewOption{Title: opt.Title, Selected: opt.Selected})
		}
		newOrder.Items = append(newOrder.Items, newItem)
	}

	created, err := s.orderRepo.Create(ctx, newOrder)
	if err != nil {
		s.mylog.Action("order_create_failed").Error("Failed to persist order", err)
		return dto.OrderResponse{}, err
	}

	s.mylog.Action("order_created").
		With("order_id", created.ID).
		With("order_number", created.Number).
		With("location_id", created.LocationID).
		Info("Order created")

	s.enqueue(ctx, notification.Job{
		Type:        notification.JobNewOrder,
		OrderID:     created.ID,
		OrderNumber: created.Number,
		LocationID:  created.LocationID,
	})

	return dto.OrderResponse{OrderID: created.ID, OrderNumber: created.Number}, nil
}

// GetStatus resolves an id+number pair to the order's status. A pair that
// resolves to nothing yields the literal "closed", never an error: stale
// client references just look like finished orders.
func (s *OrderService) GetStatus(ctx context.Context, orderID int64, number string) (string, error) {
	status, err := s.orderRepo.GetStatus(ctx, orderID, number)
	if err != nil {
		if errors.Is(err, core.ErrOrderNotFound) {
			return string(models.StatusClosed), nil
		}
		return "", err
	}
	return string(status), nil
}

// GetDetails returns the full order graph for an id+number pair.
func (s *OrderService) GetDetails(ctx context.Context, orderID int64, number string) (models.Details, error) {
	return s.orderRepo.GetDetails(ctx, orderID, number)
}

// GetHistory resolves a list of id+number pairs, dropping any that don't
// match.
func (s *OrderService) GetHistory(ctx context.Context, refs []dto.OrderRef) ([]models.Summary, error) {
	if len(refs) == 0 {
		return []models.Summary{}, nil
	}
	return s.orderRepo.GetHistory(ctx, refs)
}

// List returns a location's orders for staff, filtered by status and
// optionally restricted to orders created after the given cursor.
func (s *OrderService) List(ctx context.Context, req dto.OrdersRequest) ([]models.ListedOrder, error) {
	user, err := s.authorize(ctx, req.AccessToken)
	if err != nil {
		return nil, err
	}

	for _, f := range req.Filters {
		if !models.ValidStatus(f) {
			return nil, core.Validation([]core.FieldError{{Value: f, Param: "filters", Msg: core.MsgInvalidValue}})
		}
	}
	if len(req.Filters) == 0 {
		return []models.ListedOrder{}, nil
	}

	var newerThan *time.Time
	if req.LastOrderGenerationTime != "" {
		t, err := time.Parse(time.RFC3339, req.LastOrderGenerationTime)
		if err != nil {
			return nil, core.Validation([]core.FieldError{{Value: req.LastOrderGenerationTime, Param: "lastOrderGenerationTime", Msg: core.MsgInvalidValue}})
		}
		newerThan = &t
	}

	loc, err := s.locations.Get(ctx, req.LocationID)
	if err != nil {
		if errors.Is(err, location.ErrNotFound) {
			return nil, core.ErrLocationNotFound
		}
		return nil, err
	}
	if loc.ShopID != user.ShopID {
		return nil, core.ErrLocationNotFound
	}

	return s.orderRepo.ListByLocation(ctx, req.LocationID, req.Filters, newerThan)
}

// ChangeStatus sets an order's status on behalf of a staff member. A
// cross-shop attempt is reported as a missing order. The customer job is
// enqueued for every transition; the worker only delivers "ready".
func (s *OrderService) ChangeStatus(ctx context.Context, req dto.ChangeStatusRequest) (dto.ChangeStatusResponse, error) {
	if !models.ValidStatus(req.OrderStatus) {
		return dto.ChangeStatusResponse{}, core.Validation([]core.FieldError{{Value: req.OrderStatus, Param: "orderStatus", Msg: core.MsgInvalidValue}})
	}

	user, err := s.authorize(ctx, req.AccessToken)
	if err != nil {
		return dto.ChangeStatusResponse{}, err
	}
	if err := s.checkOwnership(ctx, user, req.OrderID); err != nil {
		return dto.ChangeStatusResponse{}, err
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, req.OrderID, models.Status(req.OrderStatus))
	if err != nil {
		return dto.ChangeStatusResponse{}, err
	}

	s.mylog.Action("order_status_changed").
		With("order_id", updated.ID).
		With("order_status", req.OrderStatus).
		Info("Order status updated")

	s.enqueue(ctx, notification.Job{
		Type:        notification.JobOrderStatus,
		OrderID:     updated.ID,
		OrderNumber: updated.Number,
		OrderStatus: req.OrderStatus,
	})

	return dto.ChangeStatusResponse{OrderID: updated.ID, OrderStatus: req.OrderStatus}, nil
}

// SendTime records that a readiness ETA was announced and enqueues the
// customer's localized wait-time alert.
func (s *OrderService) SendTime(ctx context.Context, req dto.SendTimeRequest) (dto.SendTimeResponse, error) {
	hours, minutes, fields := validateETA(req.Hours, req.Minutes)
	if err := core.Validation(fields); err != nil {
		return dto.SendTimeResponse{}, err
	}

	user, err := s.authorize(ctx, req.AccessToken)
	if err != nil {
		return dto.SendTimeResponse{}, err
	}
	if err := s.checkOwnership(ctx, user, req.OrderID); err != nil {
		return dto.SendTimeResponse{}, err
	}

	if err := s.orderRepo.MarkTimeSent(ctx, req.OrderID); err != nil {
		return dto.SendTimeResponse{}, err
	}

	s.enqueue(ctx, notification.Job{
		Type:    notification.JobOrderETA,
		OrderID: req.OrderID,
		Hours:   hours,
		Minutes: minutes,
	})

	return dto.SendTimeResponse{OrderID: req.OrderID, Hours: req.Hours, Minutes: req.Minutes}, nil
}

// authorize verifies the bearer token and resolves the business user. Any
// failure collapses into auth.ErrUnauthorized.
func (s *OrderService) authorize(ctx context.Context, accessToken string) (auth.BusinessUser, error) {
	userID, err := s.verifier.Verify(accessToken)
	if err != nil {
		return auth.BusinessUser{}, auth.ErrUnauthorized
	}
	return s.users.Lookup(ctx, userID)
}

// checkOwnership rejects orders outside the user's shop as not-found so
// existence never leaks across tenants.
func (s *OrderService) checkOwnership(ctx context.Context, user auth.BusinessUser, orderID int64) error {
	shopID, err := s.orderRepo.ShopOf(ctx, orderID)
	if err != nil {
		return err
	}
	if shopID != user.ShopID {
		return core.ErrOrderNotFound
	}
	return nil
}

// enqueue publishes a notification job best-effort. Failures are logged and
// swallowed: a missed alert must not turn a committed write into an error.
func (s *OrderService) enqueue(ctx context.Context, job notification.Job) {
	body, err := json.Marshal(job)
	if err != nil {
		s.mylog.Action("notify_enqueue_failed").Error("Failed to marshal notification job", err)
		return
	}
	if err := s.jobs.Publish(ctx, rabbitmq.KeyJobs, body); err != nil {
		s.mylog.Action("notify_enqueue_failed").
			With("job_type", job.Type).
			With("order_id", job.OrderID).
			Error("Failed to publish notification job", err)
	}
}
