// Package progression holds the point, rank and achievement rules. Everything
// here is a pure function over small tables so the rules can be tested
// without a database; persistence happens in the callers.
package progression

import (
	"math"
	"time"
)

// Multipliers maps an exercise type to the points earned per repetition.
var Multipliers = map[string]float64{
	"pushup": 0.5,
	"situp":  0.3,
	"squat":  0.4,
	"pullup": 1.0,
	"burpee": 1.5,
	"plank":  0.1,
	"run":    2.0,
}

func ValidExerciseType(exerciseType string) bool {
	_, ok := Multipliers[exerciseType]
	return ok
}

// PointsFor computes round(multiplier * count) with half-up rounding.
// math.Round rounds halves away from zero, which is half-up for the
// non-negative values that reach this function.
func PointsFor(exerciseType string, count int) int {
	multiplier, ok := Multipliers[exerciseType]
	if !ok {
		return 0
	}
	return int(math.Round(multiplier * float64(count)))
}

// RankFromPoints returns the rank tier for a cumulative point total.
// Thresholds are inclusive lower bounds: exactly 200 points is Silver.
func RankFromPoints(points int) string {
	switch {
	case points >= 1000:
		return "Master"
	case points >= 700:
		return "Ruby"
	case points >= 400:
		return "Diamond"
	case points >= 200:
		return "Silver"
	default:
		return "Bronze"
	}
}

type Tier struct {
	Name      string
	Threshold int
}

// exerciseRanks holds per-type sub-rank ladders over cumulative repetition
// counts, scanned from highest threshold to lowest. Thresholds scale with
// how demanding a single repetition of the type is.
var exerciseRanks = map[string][]Tier{
	"pushup": {{"Mythic", 2000}, {"Master", 1000}, {"Ruby", 700}, {"Diamond", 400}, {"Silver", 200}},
	"situp":  {{"Mythic", 3000}, {"Master", 1500}, {"Ruby", 1000}, {"Diamond", 600}, {"Silver", 300}},
	"squat":  {{"Mythic", 2500}, {"Master", 1250}, {"Ruby", 800}, {"Diamond", 500}, {"Silver", 250}},
	"pullup": {{"Mythic", 1000}, {"Master", 500}, {"Ruby", 350}, {"Diamond", 200}, {"Silver", 100}},
	"burpee": {{"Mythic", 800}, {"Master", 400}, {"Ruby", 250}, {"Diamond", 150}, {"Silver", 75}},
	"plank":  {{"Mythic", 6000}, {"Master", 3000}, {"Ruby", 2000}, {"Diamond", 1200}, {"Silver", 600}},
	"run":    {{"Mythic", 500}, {"Master", 250}, {"Ruby", 175}, {"Diamond", 100}, {"Silver", 50}},
}

// RankForExercise returns the sub-rank for a cumulative repetition count of
// one exercise type. Unknown types and counts below every threshold are
// Bronze.
func RankForExercise(exerciseType string, totalCount int) string {
	for _, tier := range exerciseRanks[exerciseType] {
		if totalCount >= tier.Threshold {
			return tier.Name
		}
	}
	return "Bronze"
}

// AchievementTiers lists the point thresholds that unlock achievements, in
// ascending order.
var AchievementTiers = []Tier{
	{"Beginner", 100},
	{"Intermediate", 500},
	{"Advanced", 1000},
	{"Expert", 5000},
	{"Master", 10000},
}

// MissingAchievements returns the tiers the given point total has earned but
// that are not yet in owned. Calling it again with the returned names added
// to owned yields nothing, which is what makes recalculation idempotent.
func MissingAchievements(points int, owned []string) []Tier {
	ownedSet := make(map[string]struct{}, len(owned))
	for _, name := range owned {
		ownedSet[name] = struct{}{}
	}

	var missing []Tier
	for _, tier := range AchievementTiers {
		if points < tier.Threshold {
			continue
		}
		if _, ok := ownedSet[tier.Name]; !ok {
			missing = append(missing, tier)
		}
	}
	return missing
}

// TierProgress reports the highest achievement tier reached, the next one,
// and the percentage progress between the two. Past the top tier the
// progress is pinned to 100.
func TierProgress(points int) (current *Tier, next *Tier, progress float64) {
	previousThreshold := 0
	for i := range AchievementTiers {
		tier := AchievementTiers[i]
		if points < tier.Threshold {
			next = &tier
			if current != nil {
				span := tier.Threshold - previousThreshold
				progress = float64(points-previousThreshold) / float64(span) * 100
			} else {
				progress = float64(points) / float64(tier.Threshold) * 100
			}
			return current, next, progress
		}
		current = &AchievementTiers[i]
		previousThreshold = tier.Threshold
	}
	return current, nil, 100
}

const DateLayout = "2006-01-02"

// DailySeries expands per-day sums into two parallel arrays covering every
// day of [from, to] inclusive, zero-filled where sums has no entry. Keys in
// sums use DateLayout.
func DailySeries(from time.Time, to time.Time, sums map[string]int) ([]string, []int) {
	var dates []string
	var counts []int

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(DateLayout)
		dates = append(dates, key)
		counts = append(counts, sums[key])
	}

	return dates, counts
}
