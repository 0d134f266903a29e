// internal/app/system/csvutil/limits.go
package csvutil

// Bounds on trainee onboarding uploads. MaxRows comfortably covers a full
// campus intake; anything larger is almost certainly the wrong file.
const (
	MaxUploadSize = 5 << 20 // 5 MB
	MaxRows       = 20000
)
