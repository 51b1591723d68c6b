// Package simulate replays response histories through scheduling engines
// and compares algorithms on the same data.
//
// It provides two main capabilities:
//
//   - [Replay] deterministically rebuilds an item's scheduling state from an
//     ordered response history, for audit and recovery.
//
//   - [Compare] runs the same histories through several engines and reports
//     per-algorithm interval and retention statistics, so SM2 and Leitner
//     variants can be evaluated side by side.
//
// # Usage
//
//	final, err := simulate.Replay(engine, state, history)
//	summaries, err := simulate.Compare(engines, userID, histories)
//
// Responses are coerced to each engine's input kind: a quality rating maps
// to correctness via the >= 3 success rule, and correctness maps back to a
// hesitant recall or a plain miss.
package simulate
