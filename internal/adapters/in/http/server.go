// Package http exposes the dispatch engine over a thin echo adapter.
// Handlers translate between JSON payloads and the command/query handlers;
// no business logic lives here.
package http

import (
	"errors"
	"net/http"
	"strconv"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rider"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	assignOrderHandler commands.AssignOrderCommandHandler
	batchAssignHandler commands.BatchAssignOrdersCommandHandler
	createOrderHandler commands.CreateManualOrderCommandHandler
	upsertRuleHandler  commands.UpsertAutoAssignRuleCommandHandler

	// Query handlers
	listUnassignedHandler queries.ListUnassignedOrdersQueryHandler
	countHandler          queries.UnassignedOrdersCountQueryHandler
	mapRidersHandler      queries.MapRidersQueryHandler
	mapOrdersHandler      queries.MapOrdersQueryHandler
	recommendHandler      queries.RecommendedRidersQueryHandler
	orderDetailsHandler   queries.OrderAssignmentDetailsQueryHandler
	rulesHandler          queries.AutoAssignRulesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	assignOrderHandler commands.AssignOrderCommandHandler,
	batchAssignHandler commands.BatchAssignOrdersCommandHandler,
	createOrderHandler commands.CreateManualOrderCommandHandler,
	upsertRuleHandler commands.UpsertAutoAssignRuleCommandHandler,
	listUnassignedHandler queries.ListUnassignedOrdersQueryHandler,
	countHandler queries.UnassignedOrdersCountQueryHandler,
	mapRidersHandler queries.MapRidersQueryHandler,
	mapOrdersHandler queries.MapOrdersQueryHandler,
	recommendHandler queries.RecommendedRidersQueryHandler,
	orderDetailsHandler queries.OrderAssignmentDetailsQueryHandler,
	rulesHandler queries.AutoAssignRulesQueryHandler,
) *Server {
	return &Server{
		assignOrderHandler:    assignOrderHandler,
		batchAssignHandler:    batchAssignHandler,
		createOrderHandler:    createOrderHandler,
		upsertRuleHandler:     upsertRuleHandler,
		listUnassignedHandler: listUnassignedHandler,
		countHandler:          countHandler,
		mapRidersHandler:      mapRidersHandler,
		mapOrdersHandler:      mapOrdersHandler,
		recommendHandler:      recommendHandler,
		orderDetailsHandler:   orderDetailsHandler,
		rulesHandler:          rulesHandler,
	}
}

// RegisterRoutes mounts the dispatch API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.GET("/orders/unassigned", s.ListUnassignedOrders)
	api.GET("/orders/unassigned/count", s.GetUnassignedOrdersCount)
	api.GET("/orders/:orderId/recommended-riders", s.GetRecommendedRiders)
	api.GET("/orders/:orderId/assignment", s.GetOrderAssignmentDetails)
	api.POST("/orders", s.CreateManualOrder)
	api.POST("/orders/:orderId/assign", s.AssignOrder)
	api.POST("/orders/batch-assign", s.BatchAssignOrders)
	api.POST("/orders/auto-assign", s.BatchAssignOrders)

	api.GET("/map", s.GetMapData)
	api.GET("/map/riders", s.GetMapRiders)
	api.GET("/map/orders", s.GetMapOrders)

	api.GET("/auto-assign-rules", s.GetAutoAssignRules)
	api.PUT("/auto-assign-rules", s.UpsertAutoAssignRule)
}

// ListUnassignedOrders handles GET /api/v1/orders/unassigned.
func (s *Server) ListUnassignedOrders(ctx echo.Context) error {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	pageSize, _ := strconv.Atoi(ctx.QueryParam("pageSize"))

	query, err := queries.NewListUnassignedOrdersQuery(
		ctx.QueryParam("priority"),
		ctx.QueryParam("zone"),
		ctx.QueryParam("search"),
		page,
		pageSize,
	)
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.listUnassignedHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	orders := make([]UnassignedOrder, len(result.Orders))
	for i, row := range result.Orders {
		orders[i] = UnassignedOrder{
			ID:             row.ID,
			CustomerName:   row.CustomerName,
			PickupLocation: row.PickupLocation,
			DropLocation:   row.DropLocation,
			Zone:           row.Zone,
			SlaDeadline:    row.SlaDeadline,
			Priority:       row.Priority,
		}
	}

	return ctx.JSON(http.StatusOK, UnassignedOrdersPage{
		Orders:   orders,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	})
}

// GetUnassignedOrdersCount handles GET /api/v1/orders/unassigned/count.
func (s *Server) GetUnassignedOrdersCount(ctx echo.Context) error {
	query, err := queries.NewUnassignedOrdersCountQuery(ctx.QueryParam("priority"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	count, err := s.countHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, UnassignedOrdersCount{Count: count})
}

// GetMapRiders handles GET /api/v1/map/riders.
func (s *Server) GetMapRiders(ctx echo.Context) error {
	riders, err := s.mapRiders(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, riders)
}

// GetMapOrders handles GET /api/v1/map/orders.
func (s *Server) GetMapOrders(ctx echo.Context) error {
	orders, err := s.mapOrders(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orders)
}

// GetMapData handles GET /api/v1/map - riders and orders in one payload.
func (s *Server) GetMapData(ctx echo.Context) error {
	riders, err := s.mapRiders(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	orders, err := s.mapOrders(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, MapData{Riders: riders, Orders: orders})
}

func (s *Server) mapRiders(ctx echo.Context) ([]MapRider, error) {
	query, err := queries.NewMapRidersQuery(ctx.QueryParam("zone"), ctx.QueryParam("status"))
	if err != nil {
		return nil, err
	}

	rows, err := s.mapRidersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return nil, err
	}

	riders := make([]MapRider, len(rows))
	for i, row := range rows {
		riders[i] = MapRider{
			ID:          row.ID,
			Name:        row.Name,
			Status:      row.Status,
			Lat:         row.Lat,
			Lng:         row.Lng,
			CurrentLoad: row.CurrentLoad,
			MaxLoad:     row.MaxLoad,
			Zone:        row.Zone,
		}
	}
	return riders, nil
}

func (s *Server) mapOrders(ctx echo.Context) ([]MapOrder, error) {
	query, err := queries.NewMapOrdersQuery(ctx.QueryParam("zone"))
	if err != nil {
		return nil, err
	}

	rows, err := s.mapOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return nil, err
	}

	orders := make([]MapOrder, len(rows))
	for i, row := range rows {
		orders[i] = MapOrder{
			ID:           row.ID,
			Status:       row.Status,
			CustomerName: row.CustomerName,
			DropLocation: row.DropLocation,
			Lat:          row.Lat,
			Lng:          row.Lng,
			Zone:         row.Zone,
			SlaDeadline:  row.SlaDeadline,
			RiderID:      row.RiderID,
		}
	}
	return orders, nil
}

// GetRecommendedRiders handles GET /api/v1/orders/:orderId/recommended-riders.
func (s *Server) GetRecommendedRiders(ctx echo.Context) error {
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))

	query, err := queries.NewRecommendedRidersQuery(
		ctx.Param("orderId"),
		ctx.QueryParam("search"),
		limit,
	)
	if err != nil {
		return errorResponse(ctx, err)
	}

	rows, err := s.recommendHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	riders := make([]RecommendedRider, len(rows))
	for i, row := range rows {
		riders[i] = RecommendedRider{
			RiderID:       row.RiderID,
			Name:          row.Name,
			Status:        row.Status,
			Zone:          row.Zone,
			CurrentLoad:   row.CurrentLoad,
			MaxLoad:       row.MaxLoad,
			Rating:        row.Rating,
			DistanceKm:    row.DistanceKm,
			EtaMinutes:    row.EtaMinutes,
			Score:         row.Score,
			IsRecommended: row.IsRecommended,
		}
	}

	return ctx.JSON(http.StatusOK, riders)
}

// GetOrderAssignmentDetails handles GET /api/v1/orders/:orderId/assignment.
func (s *Server) GetOrderAssignmentDetails(ctx echo.Context) error {
	query, err := queries.NewOrderAssignmentDetailsQuery(ctx.Param("orderId"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	result, err := s.orderDetailsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	timeline := make([]TimelineEntry, len(result.Timeline))
	for i, entry := range result.Timeline {
		timeline[i] = TimelineEntry{
			Status: entry.Status,
			Time:   entry.Time,
			Note:   entry.Note,
		}
	}

	details := OrderAssignmentDetails{
		ID:             result.ID,
		Status:         result.Status,
		Priority:       result.Priority,
		CustomerName:   result.CustomerName,
		PickupLocation: result.PickupLocation,
		DropLocation:   result.DropLocation,
		Zone:           result.Zone,
		EtaMinutes:     result.EtaMinutes,
		SlaDeadline:    result.SlaDeadline,
		Timeline:       timeline,
	}
	if result.Rider != nil {
		details.Rider = &AssignedRider{
			ID:          result.Rider.ID,
			Name:        result.Rider.Name,
			Status:      result.Rider.Status,
			CurrentLoad: result.Rider.CurrentLoad,
			MaxLoad:     result.Rider.MaxLoad,
			Rating:      result.Rider.Rating,
			Zone:        result.Rider.Zone,
		}
	}

	return ctx.JSON(http.StatusOK, details)
}

// CreateManualOrder handles POST /api/v1/orders.
func (s *Server) CreateManualOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	items := make([]order.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.Item{Name: item.Name, Quantity: item.Quantity}
	}

	cmd, err := commands.NewCreateManualOrderCommand(
		req.CustomerName,
		req.DropLocation,
		req.PickupLocation,
		req.Zone,
		items,
		req.OrderType,
		req.RiderID,
	)
	if err != nil {
		return errorResponse(ctx, err)
	}

	orderID, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID})
}

// AssignOrder handles POST /api/v1/orders/:orderId/assign.
func (s *Server) AssignOrder(ctx echo.Context) error {
	var req AssignOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewAssignOrderCommand(ctx.Param("orderId"), req.RiderID, req.OverrideSLA)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.assignOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// BatchAssignOrders handles POST /api/v1/orders/batch-assign and
// POST /api/v1/orders/auto-assign. An empty body dispatches the whole
// pending backlog.
func (s *Server) BatchAssignOrders(ctx echo.Context) error {
	var req BatchAssignRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	result, err := s.batchAssignHandler.Handle(
		ctx.Request().Context(),
		commands.NewBatchAssignOrdersCommand(req.OrderIDs),
	)
	if err != nil {
		return errorResponse(ctx, err)
	}

	outcomes := make([]OrderOutcomeResponse, len(result.Outcomes))
	for i, outcome := range result.Outcomes {
		outcomes[i] = OrderOutcomeResponse{
			OrderID: outcome.OrderID,
			Status:  outcome.Status,
			RiderID: outcome.RiderID,
			Reason:  outcome.Reason,
		}
	}

	return ctx.JSON(http.StatusOK, BatchAssignResponse{
		BatchID:  result.BatchID,
		Outcomes: outcomes,
		Summary: BatchSummaryResponse{
			Assigned:       result.Summary.Assigned,
			Failed:         result.Summary.Failed,
			TotalProcessed: result.Summary.TotalProcessed,
		},
	})
}

// GetAutoAssignRules handles GET /api/v1/auto-assign-rules.
func (s *Server) GetAutoAssignRules(ctx echo.Context) error {
	rows, err := s.rulesHandler.Handle(ctx.Request().Context(), queries.NewAutoAssignRulesQuery())
	if err != nil {
		return errorResponse(ctx, err)
	}

	rules := make([]AutoAssignRule, len(rows))
	for i, row := range rows {
		rules[i] = AutoAssignRule{
			ID:        row.ID,
			Name:      row.Name,
			IsActive:  row.IsActive,
			Criteria:  ruleCriteriaFromQuery(row.Criteria),
			CreatedBy: row.CreatedBy,
			UpdatedAt: row.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, rules)
}

// UpsertAutoAssignRule handles PUT /api/v1/auto-assign-rules.
func (s *Server) UpsertAutoAssignRule(ctx echo.Context) error {
	var req UpsertRuleRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewUpsertAutoAssignRuleCommand(
		req.ID,
		req.Name,
		req.IsActive,
		rule.Criteria{
			MaxRadiusKm:       req.Criteria.MaxRadiusKm,
			MaxOrdersPerRider: req.Criteria.MaxOrdersPerRider,
			PreferSameZone:    req.Criteria.PreferSameZone,
			PriorityWeight:    req.Criteria.PriorityWeight,
			DistanceWeight:    req.Criteria.DistanceWeight,
			EtaWeight:         req.Criteria.EtaWeight,
		},
		req.Actor,
	)
	if err != nil {
		return errorResponse(ctx, err)
	}

	saved, err := s.upsertRuleHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	criteria := saved.Criteria()
	return ctx.JSON(http.StatusOK, AutoAssignRule{
		ID:       saved.ID(),
		Name:     saved.Name(),
		IsActive: saved.IsActive(),
		Criteria: RuleCriteria{
			MaxRadiusKm:       criteria.MaxRadiusKm,
			MaxOrdersPerRider: criteria.MaxOrdersPerRider,
			PreferSameZone:    criteria.PreferSameZone,
			PriorityWeight:    criteria.PriorityWeight,
			DistanceWeight:    criteria.DistanceWeight,
			EtaWeight:         criteria.EtaWeight,
		},
		CreatedBy: saved.CreatedBy(),
		UpdatedAt: saved.UpdatedAt(),
	})
}

func ruleCriteriaFromQuery(criteria queries.RuleCriteriaResponse) RuleCriteria {
	return RuleCriteria{
		MaxRadiusKm:       criteria.MaxRadiusKm,
		MaxOrdersPerRider: criteria.MaxOrdersPerRider,
		PreferSameZone:    criteria.PreferSameZone,
		PriorityWeight:    criteria.PriorityWeight,
		DistanceWeight:    criteria.DistanceWeight,
		EtaWeight:         criteria.EtaWeight,
	}
}

// errorResponse maps domain and application errors onto HTTP status codes.
func errorResponse(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, rider.ErrRiderUnavailable),
		errors.Is(err, rider.ErrCapacityExceeded),
		errors.Is(err, commands.ErrSlaViolation):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, Error{Code: status, Message: err.Error()})
}
