package recommender

// UserContext is the request payload sent to the scoring service. Ids and
// category tags are in the internal namespace.
type UserContext struct {
	UserID              string   `json:"user_id"`
	Age                 *int     `json:"age,omitempty"`
	Gender              string   `json:"gender,omitempty"`
	Lat                 *float64 `json:"lat,omitempty"`
	Lon                 *float64 `json:"lon,omitempty"`
	PreferredCategories []string `json:"preferred_categories"`
	AcceptanceRate      *float64 `json:"acceptance_rate,omitempty"`
	ActiveTimeSlot      string   `json:"active_time_slot,omitempty"`
	CurrentHour         int      `json:"current_hour"`
	// DayOfWeek is 0 for Monday through 6 for Sunday
	DayOfWeek int    `json:"day_of_week"`
	Weather   string `json:"weather"`
	TopK      int    `json:"top_k"`
}

// Item is one ranked mission returned by the scoring service
type Item struct {
	MissionID      string   `json:"mission_id"`
	ModelProba     *float64 `json:"model_proba,omitempty"`
	FinalScore     *float64 `json:"final_score,omitempty"`
	PriorityWeight *float64 `json:"priority_weight,omitempty"`
	DistanceM      *float64 `json:"distance_m,omitempty"`
}

// Status distinguishes a ranking from an empty answer and from a failure
type Status int

const (
	StatusRanked Status = iota
	StatusEmpty
	StatusUnavailable
)

func (s Status) String() string {
	switch s {
	case StatusRanked:
		return "ranked"
	case StatusEmpty:
		return "empty"
	case StatusUnavailable:
		return "unavailable"
	}
	return "unknown"
}

// Result is the outcome of one Recommend call
type Result struct {
	Status Status
	// Items is in rank order; set only for StatusRanked
	Items []Item
	// Reason and Err are set only for StatusUnavailable
	Reason string
	Err    error
}
