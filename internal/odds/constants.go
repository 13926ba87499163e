package odds

// Fallback values used when no config is available
const (
	fallbackBasicRate = 0.25
)
