// Package quiz implements the flashcard quiz engine: per-user session state
// machines and the process-wide registry that serializes access to them.
//
// A session is an ordered snapshot of one topic's flashcards with a cursor,
// running score, and completion state. The registry guarantees at most one
// live session per user, serializes all events for a user, and releases a
// session only after its terminal report has been durably recorded.
package quiz
