package quiz

// Tier grades a finished session.
type Tier string

const (
	TierExcellent      Tier = "excellent"
	TierGood           Tier = "good"
	TierKeepPracticing Tier = "keep-practicing"
)

// Tiers holds the inclusive lower ratio bounds of the graded tiers,
// checked top-down.
type Tiers struct {
	Excellent float64
	Good      float64
}

// DefaultTiers grades 80% and above excellent and 60% and above good.
func DefaultTiers() Tiers {
	return Tiers{Excellent: 0.8, Good: 0.6}
}

// TierFor grades score out of total. An empty quiz keeps practicing.
func TierFor(score, total int, bounds Tiers) Tier {
	if total <= 0 {
		return TierKeepPracticing
	}
	ratio := float64(score) / float64(total)
	switch {
	case ratio >= bounds.Excellent:
		return TierExcellent
	case ratio >= bounds.Good:
		return TierGood
	default:
		return TierKeepPracticing
	}
}

// Message is the closing line shown for the tier.
func (t Tier) Message() string {
	switch t {
	case TierExcellent:
		return "Excellent! You have great sign language skills!"
	case TierGood:
		return "Good job! Keep practicing to improve."
	default:
		return "Keep practicing. You'll get better with time!"
	}
}

// Label is a short display name for listings.
func (t Tier) Label() string {
	switch t {
	case TierExcellent:
		return "Excellent"
	case TierGood:
		return "Good"
	case TierKeepPracticing:
		return "Keep practicing"
	}
	return string(t)
}
