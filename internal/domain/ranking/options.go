package ranking

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithRecentGamesWindow sets the trailing game count used by the improved
// variant's recent component.
func WithRecentGamesWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.recentGames = n
		}
	}
}

// WithBlendWeights sets the improved-variant component weights.
func WithBlendWeights(recent, season, specialTeams float64) Option {
	return func(e *Engine) {
		if recent > 0 && season > 0 && specialTeams > 0 {
			e.recentWeight = recent
			e.seasonWeight = season
			e.specialTeamsWeight = specialTeams
		}
	}
}

// WithStreakBonus sets the win-streak bonus parameters: the minimum streak
// length that earns a bonus, the per-win increment, and the total cap.
func WithStreakBonus(minLength int, increment, bonusCap float64) Option {
	return func(e *Engine) {
		if minLength > 0 {
			e.streakMinLength = minLength
		}
		if increment > 0 {
			e.streakIncrement = increment
		}
		if bonusCap > 0 {
			e.streakBonusCap = bonusCap
		}
	}
}
