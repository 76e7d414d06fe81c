// README: Itinerary handlers (trip form submission and form options).
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"travelai/internal/http/middleware"
	"travelai/internal/modules/itinerary"
	"travelai/internal/modules/trips"
)

// DefaultGenerateTimeout bounds one generation request end to end.
const DefaultGenerateTimeout = 60 * time.Second

// Planner runs the trip planning pipeline.
type Planner interface {
	PlanTrip(ctx context.Context, req itinerary.TripRequest, identity *trips.Identity) (itinerary.Itinerary, error)
}

type ItineraryHandler struct {
	planner Planner
	timeout time.Duration
}

func NewItineraryHandler(planner Planner, timeout time.Duration) *ItineraryHandler {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &ItineraryHandler{planner: planner, timeout: timeout}
}

type generateReq struct {
	Destination string   `json:"destination" binding:"required"`
	StartDate   string   `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate     string   `json:"endDate" binding:"required,datetime=2006-01-02"`
	Budget      string   `json:"budget"`
	Interests   []string `json:"interests"`
}

type generateResp struct {
	Itinerary itinerary.Itinerary `json:"itinerary"`
}

// Generate handles POST /api/itineraries.
func (h *ItineraryHandler) Generate(c *gin.Context) {
	var body generateReq
	if err := c.ShouldBindJSON(&body); err != nil {
		writeError(c, http.StatusBadRequest, "destination, startDate and endDate (YYYY-MM-DD) are required")
		return
	}

	req, err := body.toTripRequest()
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	it, err := h.planner.PlanTrip(ctx, req, middleware.CallerIdentity(c))
	if err != nil {
		if errors.Is(err, itinerary.ErrGeneration) {
			writeError(c, http.StatusBadGateway, err.Error())
			return
		}
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(c, http.StatusOK, generateResp{Itinerary: it})
}

func (b generateReq) toTripRequest() (itinerary.TripRequest, error) {
	dest := strings.TrimSpace(b.Destination)
	if dest == "" {
		return itinerary.TripRequest{}, errors.New("destination is required")
	}

	start, err := time.Parse(itinerary.DateLayout, b.StartDate)
	if err != nil {
		return itinerary.TripRequest{}, errors.New("invalid startDate")
	}
	end, err := time.Parse(itinerary.DateLayout, b.EndDate)
	if err != nil {
		return itinerary.TripRequest{}, errors.New("invalid endDate")
	}

	budget := itinerary.DefaultBudget
	if b.Budget != "" {
		budget, err = itinerary.ParseBudget(b.Budget)
		if err != nil {
			return itinerary.TripRequest{}, err
		}
	}

	return itinerary.TripRequest{
		Destination: dest,
		StartDate:   start,
		EndDate:     end,
		Budget:      budget,
		Interests:   itinerary.NormalizeInterests(b.Interests),
	}, nil
}

type optionsResp struct {
	Budgets       []itinerary.Budget `json:"budgets"`
	DefaultBudget itinerary.Budget   `json:"defaultBudget"`
	Interests     []string           `json:"interests"`
}

// Options handles GET /api/planner/options.
func (h *ItineraryHandler) Options(c *gin.Context) {
	writeJSON(c, http.StatusOK, optionsResp{
		Budgets:       itinerary.Budgets,
		DefaultBudget: itinerary.DefaultBudget,
		Interests:     itinerary.SuggestedInterests,
	})
}
