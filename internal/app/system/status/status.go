// Package status holds shared status-enum helpers used across stores.
package status

// Assignment ledger statuses (mirrors models; kept as strings for queries).
const (
	Active    = "active"
	Inactive  = "inactive"
	Completed = "completed"
	Cancelled = "cancelled"
)

// IsValidAssignment reports whether s is a legal ledger status.
func IsValidAssignment(s string) bool {
	switch s {
	case Active, Inactive, Completed, Cancelled:
		return true
	}
	return false
}

// Task statuses inside day plans.
const (
	TaskPending = "pending"
	TaskDone    = "done"
	TaskBlocked = "blocked"
	TaskSkipped = "skipped"
)

// IsValidTask reports whether s is a legal task status.
func IsValidTask(s string) bool {
	switch s {
	case TaskPending, TaskDone, TaskBlocked, TaskSkipped:
		return true
	}
	return false
}
