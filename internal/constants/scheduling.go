package constants

const (
	// DefaultLookaheadDays is how many upcoming days a block is expanded into
	DefaultLookaheadDays = 7

	// DefaultGranularityMin is the candidate rounding and probing step
	DefaultGranularityMin = 15

	// DefaultTaskDurationMin is used when a task carries a non-positive duration
	DefaultTaskDurationMin = 30

	// DefaultSpecificTime is used when a specific placement omits its time (HH:MM)
	DefaultSpecificTime = "09:00"

	// BufferActivity tags general-purpose blocks that accept any activity
	BufferActivity = "buffer"

	// EventCommitmentPrefix prefixes synthetic task IDs derived from events
	EventCommitmentPrefix = "event:"

	// Confidence scoring
	ConfidenceExactMatch   = 50
	ConfidenceHighPriority = 20
	ConfidenceMedPriority  = 10
	ConfidenceTightFit     = 20 // task uses at most half of the block
	ConfidenceLooseFit     = 10 // task uses at most three quarters of the block
	ConfidenceExplicit     = 100
	ConfidenceMax          = 100
	TightFitPercent        = 50
	LooseFitPercent        = 75
)
