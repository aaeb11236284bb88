// Package ledger keeps each named player's bankroll and win/loss record and
// persists the whole set to a store.
//
// The canonical store is a flat text file with one record per line:
//
//	name,bankroll,total,wins,winRate
//	alice,150,4,2,50.0%
//
// The win rate is always recomputed from wins and total when writing, and
// ignored when reading. Lines that cannot be parsed are skipped so one bad
// line never loses the rest of the file.
package ledger
