package agent

// QuitPenaltyThreshold is the hand penalty at or below which the agent
// prefers quitting over drawing when it has nothing to play.
const QuitPenaltyThreshold = 5
