package itinerary

import (
	"fmt"
	"strings"
)

// responseSchema is sent verbatim so the model mirrors its field names.
const responseSchema = `{
  "summary": "Brief overview of the trip",
  "days": [
    {
      "date": "YYYY-MM-DD",
      "activities": [
        {
          "time": "HH:MM",
          "description": "Activity description",
          "location": "Place name",
          "cost": "Estimated cost",
          "type": "Activity type (e.g., Sightseeing, Food, etc.)"
        }
      ]
    }
  ],
  "totalCost": "Estimated total cost",
  "tips": ["Array of useful tips"],
  "recommendations": {
    "restaurants": ["List of recommended restaurants"],
    "attractions": ["Must-visit attractions"],
    "transportation": ["Transportation tips"]
  }
}`

// BuildPrompt formats the completion prompt for req. Interests are joined in the
// order given; an empty set leaves the interests line blank.
func BuildPrompt(req TripRequest) string {
	return fmt.Sprintf(`Create a travel itinerary for %s from %s to %s.
Budget level: %s
Interests: %s

Please provide a structured itinerary in the following JSON format:
%s

Ensure the response is ONLY the JSON object, with no additional text or formatting.`,
		req.Destination,
		req.StartDate.Format(DateLayout),
		req.EndDate.Format(DateLayout),
		req.Budget,
		strings.Join(req.Interests, ", "),
		responseSchema,
	)
}
