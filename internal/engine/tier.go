// Package engine implements the HeartGlow progress and challenge engine:
// per-message progress transactions, streak and tier bookkeeping, and the
// weekly challenge assignment batch.
package engine

// BaseXPPerMessage is awarded for every counted message, before any
// challenge reward.
const BaseXPPerMessage = 10

// tierThreshold maps the minimum XP for a named tier.
type tierThreshold struct {
	MinXP int
	Name  string
}

// tierTable is ordered ascending. TierFor picks the greatest threshold
// at or below the given XP.
var tierTable = []tierThreshold{
	{0, "Opening Up"},
	{51, "Making Moves"},
	{151, "Communicator in Bloom"},
	{301, "HeartGuide"},
	{501, "Legacy Builder"},
}

// TierLowest is the tier every profile starts in.
const TierLowest = "Opening Up"

// TierFor resolves the tier name for a cumulative XP amount. Total over
// all inputs: negative XP resolves to the lowest tier.
func TierFor(xp int) string {
	tier := tierTable[0].Name
	for _, t := range tierTable {
		if xp < t.MinXP {
			break
		}
		tier = t.Name
	}
	return tier
}
