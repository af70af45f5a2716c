package dendro

// Error represents a configuration or training error
type Error string

const (
	// ErrNoFeatures is returned when learning with no registered features
	ErrNoFeatures = Error("no features registered to branch on")
	// ErrNoLabel is returned when creating a learner without a label extractor
	ErrNoLabel = Error("no label extractor")
	// ErrInvalidOptions is returned when the training options are not valid
	ErrInvalidOptions = Error("invalid training options")
	// ErrDuplicateFeature is returned when registering a feature twice with the same name
	ErrDuplicateFeature = Error("duplicate feature")
	// ErrNodeBudgetExceeded is returned when growing a tree would create more nodes than allowed
	ErrNodeBudgetExceeded = Error("node budget exceeded")
	// ErrUnknownQualifier is returned when a split qualifier name cannot be resolved
	ErrUnknownQualifier = Error("unknown split qualifier")
)

func (e Error) Error() string {
	return string(e)
}
