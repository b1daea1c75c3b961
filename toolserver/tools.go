package toolserver

// Tool names served by tools/call.
const (
	ToolSearchRestaurants      = "search_restaurants"
	ToolGetAvailableSlots      = "get_available_slots"
	ToolMakeReservation        = "make_reservation"
	ToolGenerateCalendarInvite = "generate_calendar_invite"
	ToolListReservations       = "list_reservations"
)

// Catalog returns the definitions served by tools/list.
func Catalog() []Tool {
	return []Tool{
		{
			Name:        ToolSearchRestaurants,
			Description: "Search for restaurants near a location, filtered by cuisine and minimum rating.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"description": "Location to search, e.g. \"New York, NY\"",
					},
					"cuisine_type": map[string]any{
						"type":        "string",
						"description": "Type of cuisine, e.g. \"italian\" (default: Italian)",
					},
					"radius": map[string]any{
						"type":        "integer",
						"description": "Search radius in meters (default: 5000)",
					},
					"min_rating": map[string]any{
						"type":        "number",
						"description": "Minimum rating filter (default: 4.0)",
					},
					"max_results": map[string]any{
						"type":        "integer",
						"description": "Maximum number of results (default: 10)",
					},
				},
				"required": []string{"location"},
			},
		},
		{
			Name:        ToolGetAvailableSlots,
			Description: "Get available reservation time slots for a restaurant on a date.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"restaurant_name": map[string]any{
						"type":        "string",
						"description": "Name of the restaurant",
					},
					"date": map[string]any{
						"type":        "string",
						"description": "Date in YYYY-MM-DD format",
					},
					"party_size": map[string]any{
						"type":        "integer",
						"description": "Number of people (default: 2)",
					},
				},
				"required": []string{"restaurant_name", "date"},
			},
		},
		{
			Name:        ToolMakeReservation,
			Description: "Make a restaurant reservation for an exact date and time slot.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"restaurant_name": map[string]any{
						"type":        "string",
						"description": "Name of the restaurant",
					},
					"restaurant_address": map[string]any{
						"type":        "string",
						"description": "Restaurant address",
					},
					"date": map[string]any{
						"type":        "string",
						"description": "Date in YYYY-MM-DD format",
					},
					"time": map[string]any{
						"type":        "string",
						"description": "Time in HH:MM format",
					},
					"party_size": map[string]any{
						"type":        "integer",
						"description": "Number of people",
					},
					"customer_name": map[string]any{
						"type":        "string",
						"description": "Customer's full name",
					},
					"customer_email": map[string]any{
						"type":        "string",
						"description": "Customer's email address",
					},
					"special_requests": map[string]any{
						"type":        "string",
						"description": "Any special requests or notes",
					},
				},
				"required": []string{
					"restaurant_name", "restaurant_address", "date", "time",
					"party_size", "customer_name", "customer_email",
				},
			},
		},
		{
			Name:        ToolGenerateCalendarInvite,
			Description: "Generate a calendar invite (.ics document) for an existing reservation.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"reservation_id": map[string]any{
						"type":        "string",
						"description": "The reservation ID",
					},
					"duration_minutes": map[string]any{
						"type":        "integer",
						"description": "Duration of the reservation in minutes (default: 90)",
					},
				},
				"required": []string{"reservation_id"},
			},
		},
		{
			Name:        ToolListReservations,
			Description: "List reservations in creation order, optionally filtered by customer email.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"customer_email": map[string]any{
						"type":        "string",
						"description": "Filter by customer email (optional, exact match)",
					},
				},
			},
		},
	}
}
