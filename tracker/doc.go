// Package tracker implements fan-out/fan-in aggregation of agent responses.
//
// A Tracker follows, per conversation id, the set of respondents still
// outstanding and the responses received so far. Each conversation moves
// from Open to Closed exactly once: when the outstanding set becomes empty the
// state is removed and the completion callback fires with every response in
// arrival order.
//
// Compatibility behaviors:
//   - Start on an id that is still open replaces it; the old callback never fires.
//   - A conversation started with no respondents stays open until its first
//     Receive, which then completes it with a single response.
package tracker
