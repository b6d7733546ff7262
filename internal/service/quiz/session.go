package quiz

import (
	"time"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
)

// State identifies where a session is in its lifecycle.
// Transitions are one-way: InProgress ends in either Completed or Cancelled,
// and no terminal state is re-enterable.
type State string

// Session states
const (
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
	StateCancelled  State = "cancelled"
)

// CardView is the caller-facing projection of the card to answer next.
// The answer itself is never exposed.
type CardView struct {
	Question   string `json:"question"`
	Difficulty int    `json:"difficulty"`
}

// Session is the in-memory state machine for one user's quiz over one topic.
//
// The card snapshot is fixed at creation: edits to the underlying flashcard
// set do not affect an in-flight session. The cursor advances by exactly one
// per answer and never passes the snapshot length.
//
// Session methods are not safe for concurrent use; the Registry serializes
// all access per user.
type Session struct {
	userID uuid.UUID
	topic  string
	cards  []*domain.Flashcard

	cursor   int
	score    int
	answered int
	state    State

	// reportPending is set when the session reached a terminal state but the
	// durable report write failed. The session is kept alive solely so the
	// write can be retried; no further answers are accepted.
	reportPending *domain.QuizReport

	startedAt time.Time
}

// newSession creates an InProgress session over a non-empty card snapshot.
// Callers are responsible for rejecting empty snapshots beforehand.
func newSession(userID uuid.UUID, topic string, cards []*domain.Flashcard, now time.Time) *Session {
	return &Session{
		userID:    userID,
		topic:     topic,
		cards:     cards,
		cursor:    0,
		score:     0,
		answered:  0,
		state:     StateInProgress,
		startedAt: now,
	}
}

// CurrentCard returns the card at the cursor, or nil when the snapshot is
// exhausted.
func (s *Session) CurrentCard() *domain.Flashcard {
	if s.cursor >= len(s.cards) {
		return nil
	}
	return s.cards[s.cursor]
}

// Total returns the snapshot length.
func (s *Session) Total() int {
	return len(s.cards)
}

// Score returns the count of correct answers so far.
func (s *Session) Score() int {
	return s.score
}

// Answered returns the count of answers submitted so far.
func (s *Session) Answered() int {
	return s.answered
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Topic returns the topic the session was started for.
func (s *Session) Topic() string {
	return s.topic
}

// applyAnswer evaluates the submitted text against the card at the cursor,
// updates the counters, advances the cursor, and transitions to Completed
// when the snapshot is exhausted. It returns the reviewed card and whether
// the answer was correct.
//
// Returns ErrSessionClosed if the session is not InProgress.
func (s *Session) applyAnswer(text string) (card *domain.Flashcard, correct bool, err error) {
	if s.state != StateInProgress {
		return nil, false, ErrSessionClosed
	}

	card = s.cards[s.cursor]
	correct = card.MatchesAnswer(text)

	s.answered++
	if correct {
		s.score++
	}
	s.cursor++

	if s.cursor == len(s.cards) {
		s.state = StateCompleted
	}

	return card, correct, nil
}

// cancel transitions an InProgress session to Cancelled.
// Returns ErrSessionClosed if the session already reached a terminal state.
func (s *Session) cancel() error {
	if s.state != StateInProgress {
		return ErrSessionClosed
	}
	s.state = StateCancelled
	return nil
}

// buildReport constructs the terminal report for the session's current
// counters. The completed flag distinguishes natural completion from an
// early stop.
func (s *Session) buildReport() (*domain.QuizReport, error) {
	return domain.NewQuizReport(
		s.userID,
		s.topic,
		s.score,
		len(s.cards),
		s.answered,
		s.state == StateCompleted,
	)
}

// nextCardView returns the projection of the card at the cursor, or nil when
// the session is finished.
func (s *Session) nextCardView() *CardView {
	card := s.CurrentCard()
	if card == nil {
		return nil
	}
	return &CardView{
		Question:   card.Question,
		Difficulty: card.Difficulty,
	}
}
