package league

const (
	pointsForPlaying = 100
	pointsPerGoal    = 30
	pointsPerAssist  = 20
	pointsForMVP     = 40
	hatTrickBonus    = 30
	hatTrickGoals    = 3
	noShowPenalty    = -50
)

// PointsEarned scores a single participation.
func PointsEarned(p Participation) int {
	if !p.ActuallyPlayed {
		if p.NoShow {
			return noShowPenalty
		}
		return 0
	}

	points := pointsForPlaying
	points += p.Goals * pointsPerGoal
	points += p.Assists * pointsPerAssist
	if p.IsMVP {
		points += pointsForMVP
	}
	// Stacks with the per-goal points
	if p.Goals >= hatTrickGoals {
		points += hatTrickBonus
	}
	return points
}
