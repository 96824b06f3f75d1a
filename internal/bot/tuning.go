package bot

// The random brain fills between minRandomPlacements and maxRandomPlacements
// cells of its bowl.
const (
	minRandomPlacements = 5
	maxRandomPlacements = 9
)

// unscorable ranks a candidate the engine refused to score below any real bowl.
const unscorable = -1 << 30
