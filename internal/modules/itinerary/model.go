// README: Trip request and itinerary types shared by the prompt, extractor and service.
package itinerary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DateLayout is the calendar-date form used in prompts, requests and storage.
const DateLayout = "2006-01-02"

type Budget string

const (
	BudgetFriendly Budget = "Budget Friendly"
	BudgetMidRange Budget = "Mid-Range"
	BudgetLuxury   Budget = "Luxury"
)

// DefaultBudget is preselected by the planner form.
const DefaultBudget = BudgetMidRange

// Budgets lists the accepted budget levels in display order.
var Budgets = []Budget{BudgetFriendly, BudgetMidRange, BudgetLuxury}

// SuggestedInterests are the tags offered by the planner form. Requests may carry others.
var SuggestedInterests = []string{"Culture", "Nature", "Food", "Adventure", "Shopping", "Relaxation"}

var ErrUnknownBudget = errors.New("unknown budget level")

func (b Budget) Valid() bool {
	for _, v := range Budgets {
		if b == v {
			return true
		}
	}
	return false
}

// ParseBudget matches s exactly against the known levels.
func ParseBudget(s string) (Budget, error) {
	b := Budget(s)
	if !b.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBudget, s)
	}
	return b, nil
}

// TripRequest carries the planner form input. It is not modified after it is handed
// to the service.
type TripRequest struct {
	Destination string
	StartDate   time.Time
	EndDate     time.Time
	Budget      Budget
	Interests   []string
}

// NormalizeInterests trims tags, drops empty ones and removes duplicates while
// keeping the first occurrence order.
func NormalizeInterests(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Itinerary is a model response that passed extraction. It holds the JSON object
// exactly as the model produced it (whitespace compacted); fields other than days
// are neither validated nor defaulted.
type Itinerary struct {
	raw json.RawMessage
}

// JSON returns the itinerary object. The slice must not be modified.
func (it Itinerary) JSON() json.RawMessage {
	return it.raw
}

// IsZero reports whether it holds no itinerary.
func (it Itinerary) IsZero() bool {
	return len(it.raw) == 0
}

// DayCount returns the length of the days array.
func (it Itinerary) DayCount() int {
	return int(gjson.GetBytes(it.raw, "days.#").Int())
}

func (it Itinerary) MarshalJSON() ([]byte, error) {
	if it.IsZero() {
		return []byte("null"), nil
	}
	return it.raw, nil
}

// UnmarshalJSON accepts a JSON object under the same rules as Extract, without the
// span capture: arrays, strings and numbers are rejected. null leaves it unchanged.
func (it *Itinerary) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		return nil
	}
	if len(b) == 0 || b[0] != '{' {
		return &ParseError{Kind: ErrInvalidShape, Detail: "itinerary is not an object"}
	}
	parsed, err := extractObject(b)
	if err != nil {
		return err
	}
	*it = parsed
	return nil
}

// Plan decodes the itinerary into its typed view. It fails when the model used
// different types than the requested schema (e.g. a numeric cost); the itinerary
// itself stays valid in that case.
func (it Itinerary) Plan() (Plan, error) {
	var p Plan
	if err := json.Unmarshal(it.raw, &p); err != nil {
		return Plan{}, fmt.Errorf("decode plan: %w", err)
	}
	return p, nil
}

// Plan is the typed view of the requested schema. Absent fields stay zero/nil.
type Plan struct {
	Summary         string           `json:"summary,omitempty"`
	Days            []DayPlan        `json:"days"`
	TotalCost       string           `json:"totalCost,omitempty"`
	Tips            []string         `json:"tips,omitempty"`
	Recommendations *Recommendations `json:"recommendations,omitempty"`
}

type DayPlan struct {
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
}

// Activity cost and type are free text; the model gives no currency guarantee.
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Cost        string `json:"cost"`
	Type        string `json:"type"`
}

type Recommendations struct {
	Restaurants    []string `json:"restaurants,omitempty"`
	Attractions    []string `json:"attractions,omitempty"`
	Transportation []string `json:"transportation,omitempty"`
}
