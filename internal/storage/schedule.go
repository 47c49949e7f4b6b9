package storage

// Resource is a production line. Specs is the ordered capability set; the
// declaration order in the reference file breaks scheduler ties.
type Resource struct {
	ID    string   `yaml:"id" json:"id"`
	Name  string   `yaml:"name" json:"name"`
	Specs []string `yaml:"specs" json:"specs"`
	// RatePerHour is units per hour; 0 means use the configured default.
	RatePerHour int `yaml:"rate_per_hour" json:"rate_per_hour"`
}

func (r Resource) Supports(spec string) bool {
	for _, s := range r.Specs {
		if s == spec {
			return true
		}
	}
	return false
}

// Task is one indivisible placement of an order on a resource timeline.
// Start, Duration and End are whole hours from the horizon origin;
// End = Start + Duration always.
type Task struct {
	ID       string `json:"id"`
	Order    Order  `json:"order"`
	Resource string `json:"resource"`
	Start    int    `json:"start"`
	Duration int    `json:"duration"`
	End      int    `json:"end"`
}
