package main

// Achievement definitions
type AchievementDef struct {
	ID          string
	Name        string
	Description string
}

var Achievements = []AchievementDef{
	{"first_basket", "First Basket", "Score your first basket"},
	{"hot_hand", "Hot Hand", "Score 5 baskets in a single run"},
	{"swish_machine", "Swish Machine", "Score 100 total baskets"},
	{"sky_high", "Sky High", "Reach the top bounce level"},
	{"regular", "Regular", "Finish 10 runs"},
	{"marathon", "Marathon", "Play for 1 hour total"},
}

// CheckAchievements checks if any new achievements should be unlocked for a
// player after a run. Returns the newly unlocked definitions.
func CheckAchievements(db *DB, playerID int64, runBaskets, runChain int) []AchievementDef {
	if db == nil {
		return nil
	}

	stats, err := db.GetStats(playerID)
	if err != nil || stats == nil {
		return nil
	}

	existing, err := db.GetAchievements(playerID)
	if err != nil {
		return nil
	}
	has := make(map[string]bool, len(existing))
	for _, a := range existing {
		has[a] = true
	}

	var unlocked []AchievementDef

	check := func(id string) bool {
		if has[id] {
			return false
		}
		switch id {
		case "first_basket":
			return stats.Baskets >= 1
		case "hot_hand":
			return runBaskets >= 5
		case "swish_machine":
			return stats.Baskets >= 100
		case "sky_high":
			return runChain >= MaxBounce
		case "regular":
			return stats.Runs >= 10
		case "marathon":
			return stats.Playtime >= 3600
		}
		return false
	}

	for _, def := range Achievements {
		if check(def.ID) {
			if newlyUnlocked, err := db.UnlockAchievement(playerID, def.ID); err == nil && newlyUnlocked {
				unlocked = append(unlocked, def)
			}
		}
	}

	return unlocked
}
