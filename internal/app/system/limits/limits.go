// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxJSONBodySize is the maximum size for JSON API request bodies.
	MaxJSONBodySize = 1 << 20 // 1 MB

	// MaxPlanTasks caps how many tasks one day plan may carry.
	MaxPlanTasks = 50

	// MaxTraineesPerBind caps how many trainees one bind request may carry.
	MaxTraineesPerBind = 100
)
