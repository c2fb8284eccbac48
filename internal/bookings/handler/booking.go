package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"hotelbooking/internal/bookings/service"
	apperrors "hotelbooking/pkg/errors"
	httputil "hotelbooking/pkg/http"
	"hotelbooking/pkg/logger"
	"hotelbooking/pkg/middleware"
	"hotelbooking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service  service.BookingService
	settings service.SettingsService
	log      *logger.Logger
}

func NewBookingHandler(service service.BookingService, settings service.SettingsService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:  service,
		settings: settings,
		log:      log,
	}
}

// bookingPayload is the create body. Dates arrive as strings so both
// YYYY-MM-DD and RFC3339 are accepted.
type bookingPayload struct {
	HotelID   string              `json:"hotel"`
	UserID    string              `json:"user"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Rooms     []model.RoomRequest `json:"rooms"`
	CouponID  string              `json:"couponId"`
}

type updatePayload struct {
	UserID    string               `json:"user"`
	StartDate *string              `json:"startDate"`
	EndDate   *string              `json:"endDate"`
	Rooms     *[]model.RoomRequest `json:"rooms"`
	Status    model.BookingStatus  `json:"status"`
}

type quotePayload struct {
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Rooms     []model.RoomRequest `json:"rooms"`
}

type bookingResponse struct {
	Success    bool           `json:"success"`
	Price      float64        `json:"price"`
	CouponUsed string         `json:"couponUsed,omitempty"`
	Discount   float64        `json:"discount,omitempty"`
	Data       *model.Booking `json:"data"`
}

type checkInResponse struct {
	Success       bool           `json:"success"`
	PointsAwarded int64          `json:"pointsAwarded"`
	Data          *model.Booking `json:"data"`
}

type priceToPointBody struct {
	PriceToPoint float64 `json:"priceToPoint"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload bookingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	start, err := httputil.ParseDate("startDate", payload.StartDate)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}
	end, err := httputil.ParseDate("endDate", payload.EndDate)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	req := &model.BookingRequest{
		HotelID:   payload.HotelID,
		UserID:    payload.UserID,
		StartDate: start,
		EndDate:   end,
		Rooms:     payload.Rooms,
		CouponID:  payload.CouponID,
	}

	result, err := h.service.Create(r.Context(), middleware.ActorFromContext(r.Context()), req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, newBookingResponse(result)); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var payload updatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, "Update", apperrors.InvalidInput("Invalid request body"))
		return
	}

	update := &model.BookingUpdate{
		UserID: payload.UserID,
		Rooms:  payload.Rooms,
		Status: payload.Status,
	}
	if payload.StartDate != nil {
		start, err := httputil.ParseDate("startDate", *payload.StartDate)
		if err != nil {
			h.writeError(w, "Update", err)
			return
		}
		update.StartDate = &start
	}
	if payload.EndDate != nil {
		end, err := httputil.ParseDate("endDate", *payload.EndDate)
		if err != nil {
			h.writeError(w, "Update", err)
			return
		}
		update.EndDate = &end
	}

	result, err := h.service.Update(r.Context(), middleware.ActorFromContext(r.Context()), id, update)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, newBookingResponse(result)); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Update", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Cancel(r.Context(), middleware.ActorFromContext(r.Context()), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteOK(w); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) CheckIn(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	result, err := h.service.CheckIn(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, "CheckIn", err)
		return
	}

	resp := checkInResponse{Success: true, PointsAwarded: result.PointsAwarded, Data: result.Booking}
	if err := httputil.WriteJSON(w, http.StatusOK, resp); err != nil {
		h.log.Error("failed to write JSON response", "handler", "CheckIn", "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.Complete(r.Context(), middleware.ActorFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Complete", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	actor := middleware.ActorFromContext(r.Context())

	expand, _ := strconv.ParseBool(r.URL.Query().Get("expand"))
	var (
		data any
		err  error
	)
	if expand {
		data, err = h.service.GetExpanded(r.Context(), actor, id)
	} else {
		data, err = h.service.GetByID(r.Context(), actor, id)
	}
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.List(r.Context(), middleware.ActorFromContext(r.Context()), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotelID := ps.ByName("hotelId")
	query := r.URL.Query()

	checkin, err := httputil.ParseDate("checkin", query.Get("checkin"))
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}
	checkout, err := httputil.ParseDate("checkout", query.Get("checkout"))
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	availability, err := h.service.Availability(r.Context(), hotelID, checkin, checkout)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Quote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotelID := ps.ByName("hotelId")

	var payload quotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, "Quote", apperrors.InvalidInput("Invalid request body"))
		return
	}
	start, err := httputil.ParseDate("startDate", payload.StartDate)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}
	end, err := httputil.ParseDate("endDate", payload.EndDate)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	quote, err := h.service.Quote(r.Context(), hotelID, start, end, payload.Rooms)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	if err := httputil.WriteSuccess(w, quote); err != nil {
		h.log.Error("failed to write success response", "handler", "Quote", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetPriceToPoint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ratio, err := h.settings.PriceToPoint(r.Context())
	if err != nil {
		h.writeError(w, "GetPriceToPoint", err)
		return
	}

	if err := httputil.WriteSuccess(w, priceToPointBody{PriceToPoint: ratio}); err != nil {
		h.log.Error("failed to write success response", "handler", "GetPriceToPoint", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) SetPriceToPoint(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body priceToPointBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "SetPriceToPoint", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.settings.SetPriceToPoint(r.Context(), middleware.ActorFromContext(r.Context()), body.PriceToPoint); err != nil {
		h.writeError(w, "SetPriceToPoint", err)
		return
	}

	if err := httputil.WriteSuccess(w, body); err != nil {
		h.log.Error("failed to write success response", "handler", "SetPriceToPoint", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func newBookingResponse(result *service.BookingResult) bookingResponse {
	return bookingResponse{
		Success:    true,
		Price:      result.Price,
		CouponUsed: result.CouponUsed,
		Discount:   result.Discount,
		Data:       result.Booking,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.PUT("/api/v1/bookings/:id", h.Update)
	router.DELETE("/api/v1/bookings/:id", h.Delete)
	router.PUT("/api/v1/bookings/:id/checkIn", h.CheckIn)
	router.PUT("/api/v1/bookings/:id/completed", h.Complete)
	router.GET("/api/v1/hotels/:hotelId/available", h.Availability)
	router.POST("/api/v1/hotels/:hotelId/quote", h.Quote)
	router.GET("/api/v1/settings/price-to-point", h.GetPriceToPoint)
	router.PUT("/api/v1/settings/price-to-point", h.SetPriceToPoint)
}
