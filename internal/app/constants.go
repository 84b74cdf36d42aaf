package app

// SeatsPerTable is the number of players a round needs. Every seat must be
// filled, by a human or a bot, before StartRound.
const SeatsPerTable = 4
