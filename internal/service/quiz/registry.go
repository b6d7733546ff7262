package quiz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizpal/quizpal-api/internal/domain"
	"github.com/quizpal/quizpal-api/internal/domain/srs"
	"github.com/quizpal/quizpal-api/internal/platform/logger"
	"github.com/quizpal/quizpal-api/internal/store"
)

// RestartPolicy selects what happens to a live session when the user starts a
// new quiz.
type RestartPolicy string

// Restart policies
const (
	// RestartDiscard drops the live session without writing a report.
	RestartDiscard RestartPolicy = "discard"

	// RestartCancel closes the live session with a not-completed report
	// before the new one is registered.
	RestartCancel RestartPolicy = "cancel"
)

// ParseRestartPolicy converts a configuration string into a RestartPolicy.
func ParseRestartPolicy(s string) (RestartPolicy, error) {
	switch RestartPolicy(s) {
	case RestartDiscard, RestartCancel:
		return RestartPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown restart policy %q", s)
	}
}

// StartResult is returned when a quiz session is created.
type StartResult struct {
	Question       CardView `json:"question"`
	TotalQuestions int      `json:"total_questions"`
}

// AnswerOutcome is returned for each submitted answer.
// When Finished is false, NextQuestion carries the card to display next.
// ScheduleSaved is false when the spaced-repetition update could not be
// persisted; the quiz flow continues regardless.
type AnswerOutcome struct {
	Correct       bool      `json:"correct"`
	ScheduleSaved bool      `json:"schedule_saved"`
	Finished      bool      `json:"finished"`
	Score         int       `json:"score"`
	Answered      int       `json:"answered"`
	Total         int       `json:"total"`
	NextQuestion  *CardView `json:"next_question,omitempty"`
}

// StopResult is returned when a session is cancelled.
type StopResult struct {
	Score    int `json:"score"`
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// Registry owns every live quiz session, at most one per user.
//
// All session access runs under a per-user exclusive section held across the
// full read-modify-write of session state and its persistence calls, so two
// concurrent answers for one user can never both advance the cursor from the
// same prior value. Events for different users proceed concurrently.
//
// A session leaves the registry only after its terminal report is durably
// recorded (at-least-once: a failed write keeps the session for retry, and a
// recorded write is never repeated).
type Registry struct {
	cards     store.FlashcardStore
	reports   store.QuizReportStore
	logs      store.ReviewLogStore
	txRunner  TransactionRunner
	scheduler srs.Service
	onRestart RestartPolicy
	logger    *slog.Logger

	// Injectable for testing
	now func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	locks    map[uuid.UUID]*sync.Mutex
}

// NewRegistry creates a session registry.
func NewRegistry(
	cards store.FlashcardStore,
	reports store.QuizReportStore,
	logs store.ReviewLogStore,
	txRunner TransactionRunner,
	scheduler srs.Service,
	onRestart RestartPolicy,
	logger *slog.Logger,
) *Registry {
	if cards == nil {
		panic("cards store cannot be nil")
	}
	if reports == nil {
		panic("reports store cannot be nil")
	}
	if logs == nil {
		panic("review log store cannot be nil")
	}
	if txRunner == nil {
		panic("txRunner cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		cards:     cards,
		reports:   reports,
		logs:      logs,
		txRunner:  txRunner,
		scheduler: scheduler,
		onRestart: onRestart,
		logger:    logger.With(slog.String("component", "quiz_registry")),
		now:       func() time.Time { return time.Now().UTC() },
		sessions:  make(map[uuid.UUID]*Session),
		locks:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// userLock returns the exclusive section for one user, creating it on first
// use. Locks are never removed: one mutex per user ever seen is a bounded,
// tiny cost and keeps lock identity stable across session lifecycles.
func (r *Registry) userLock(userID uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[userID] = lock
	}
	return lock
}

func (r *Registry) getSession(userID uuid.UUID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[userID]
}

func (r *Registry) setSession(userID uuid.UUID, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[userID] = s
}

func (r *Registry) removeSession(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

// ActiveSessionCount reports the number of live sessions. Abandoned sessions
// persist until stopped or replaced, so this is the figure to watch for
// leakage.
func (r *Registry) ActiveSessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Start creates a quiz session for (userID, topic) and returns the first
// question with the snapshot size.
//
// Returns ErrNoCardsForTopic when the user has no cards for the topic; no
// session is registered and no report is written in that case. A live session
// for the user is handled per the configured RestartPolicy before the new one
// is registered.
func (r *Registry) Start(ctx context.Context, userID uuid.UUID, topic string) (*StartResult, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cards, err := r.cards.ListByTopic(ctx, userID, topic)
	if err != nil {
		log.Error("failed to load card snapshot",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("topic", topic))
		return nil, NewStartError("failed to load flashcards", err)
	}

	if len(cards) == 0 {
		log.Debug("no cards for topic",
			slog.String("user_id", userID.String()),
			slog.String("topic", topic))
		return nil, ErrNoCardsForTopic
	}

	if existing := r.getSession(userID); existing != nil {
		if err := r.closeExisting(ctx, log, userID, existing); err != nil {
			return nil, err
		}
	}

	session := newSession(userID, topic, cards, r.now())
	r.setSession(userID, session)

	log.Info("quiz session started",
		slog.String("user_id", userID.String()),
		slog.String("topic", topic),
		slog.Int("total_questions", session.Total()))

	return &StartResult{
		Question:       *session.nextCardView(),
		TotalQuestions: session.Total(),
	}, nil
}

// closeExisting applies the restart policy to a live session found during
// Start. A session stuck with an unflushed report is always flushed first:
// its report is owed regardless of policy.
func (r *Registry) closeExisting(
	ctx context.Context,
	log *slog.Logger,
	userID uuid.UUID,
	existing *Session,
) error {
	if existing.reportPending != nil {
		if err := r.flushReport(ctx, userID, existing); err != nil {
			return NewStartError("previous session report still unrecorded", err)
		}
		return nil
	}

	switch r.onRestart {
	case RestartCancel:
		if err := existing.cancel(); err != nil {
			return NewStartError("failed to cancel previous session", err)
		}
		if err := r.closeSession(ctx, userID, existing); err != nil {
			return NewStartError("failed to record previous session report", err)
		}
		log.Info("previous session auto-cancelled",
			slog.String("user_id", userID.String()),
			slog.String("topic", existing.Topic()))
	default: // RestartDiscard
		r.removeSession(userID)
		log.Info("previous session discarded",
			slog.String("user_id", userID.String()),
			slog.String("topic", existing.Topic()))
	}

	return nil
}

// SubmitAnswer evaluates the submitted text against the active session's
// current card.
//
// Returns ErrNoActiveSession when the user has no quiz in progress. On the
// final answer the outcome has Finished set and the terminal report is
// durably recorded before the session is removed; if that write fails the
// session is retained and the next SubmitAnswer or Stop retries it.
func (r *Registry) SubmitAnswer(ctx context.Context, userID uuid.UUID, text string) (*AnswerOutcome, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := r.getSession(userID)
	if session == nil {
		return nil, ErrNoActiveSession
	}

	// A session waiting on its report write accepts no further answers; the
	// call retries the flush instead (at-least-once delivery).
	if session.reportPending != nil {
		if err := r.flushReport(ctx, userID, session); err != nil {
			return nil, err
		}
		return finishedOutcome(session), nil
	}

	card, correct, err := session.applyAnswer(text)
	if err != nil {
		return nil, err
	}

	scheduleSaved := r.persistReview(ctx, log, userID, card, correct)

	outcome := &AnswerOutcome{
		Correct:       correct,
		ScheduleSaved: scheduleSaved,
		Finished:      session.State() == StateCompleted,
		Score:         session.Score(),
		Answered:      session.Answered(),
		Total:         session.Total(),
	}

	if !outcome.Finished {
		outcome.NextQuestion = session.nextCardView()
		return outcome, nil
	}

	if err := r.closeSession(ctx, userID, session); err != nil {
		return nil, err
	}

	log.Info("quiz completed",
		slog.String("user_id", userID.String()),
		slog.String("topic", session.Topic()),
		slog.Int("score", session.Score()),
		slog.Int("total", session.Total()))

	return outcome, nil
}

// Stop cancels the user's active session and records its report with the
// counters accumulated so far.
//
// Returns ErrNoActiveSession when the user has no quiz in progress. The same
// durability ordering as natural completion applies: the session is removed
// only after the report write succeeds.
func (r *Registry) Stop(ctx context.Context, userID uuid.UUID) (*StopResult, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	session := r.getSession(userID)
	if session == nil {
		return nil, ErrNoActiveSession
	}

	if session.reportPending == nil {
		if err := session.cancel(); err != nil {
			return nil, err
		}
	}

	if err := r.closeSession(ctx, userID, session); err != nil {
		return nil, err
	}

	log.Info("quiz stopped",
		slog.String("user_id", userID.String()),
		slog.String("topic", session.Topic()),
		slog.Int("score", session.Score()),
		slog.Int("answered", session.Answered()),
		slog.Int("total", session.Total()))

	return &StopResult{
		Score:    session.Score(),
		Answered: session.Answered(),
		Total:    session.Total(),
	}, nil
}

// persistReview computes the card's next schedule and writes the schedule
// update together with a review log row in one transaction. Failures are
// non-fatal to the quiz flow: a stale card id is skipped, and any other
// storage failure only flips ScheduleSaved off.
func (r *Registry) persistReview(
	ctx context.Context,
	log *slog.Logger,
	userID uuid.UUID,
	card *domain.Flashcard,
	correct bool,
) bool {
	now := r.now()

	next, err := r.scheduler.NextSchedule(srs.Schedule{
		IntervalDays:  card.IntervalDays,
		NextReviewAt:  card.NextReviewAt,
		TimesReviewed: card.TimesReviewed,
	}, correct, now)
	if err != nil {
		log.Warn("failed to compute next schedule",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return false
	}

	entry, err := domain.NewReviewLog(userID, card.ID, correct)
	if err != nil {
		log.Warn("failed to build review log entry",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return false
	}

	err = r.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := r.cards.WithTx(tx).RecordReview(ctx, card.ID, next.IntervalDays, next.NextReviewAt, now); err != nil {
			return err
		}
		return r.logs.WithTx(tx).Append(ctx, entry)
	})

	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			// The card was removed outside the session; the snapshot entry is
			// stale. The quiz continues on the snapshot regardless.
			log.Warn("card vanished during quiz, review update skipped",
				slog.String("card_id", card.ID.String()),
				slog.String("user_id", userID.String()))
		} else {
			log.Warn("failed to persist review schedule",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()),
				slog.String("user_id", userID.String()))
		}
		return false
	}

	return true
}

// closeSession records the terminal report for a session and, once the write
// succeeds, evicts the session from the registry. On failure the session is
// parked with the report pending so a later call can retry; the report is
// built once, so a retry can never produce a second row for the same session.
func (r *Registry) closeSession(ctx context.Context, userID uuid.UUID, session *Session) error {
	if session.reportPending == nil {
		report, err := session.buildReport()
		if err != nil {
			return NewStopError("failed to build quiz report", err)
		}
		session.reportPending = report
	}

	return r.flushReport(ctx, userID, session)
}

// flushReport attempts the durable report write for a parked session.
func (r *Registry) flushReport(ctx context.Context, userID uuid.UUID, session *Session) error {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if err := r.reports.Append(ctx, session.reportPending); err != nil {
		log.Error("failed to record quiz report, session retained for retry",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("topic", session.Topic()))
		return fmt.Errorf("%w: %v", ErrReportWriteFailed, err)
	}

	session.reportPending = nil
	r.removeSession(userID)
	return nil
}

// finishedOutcome rebuilds the terminal outcome for a session whose report
// flush was retried after the final answer had already been applied.
func finishedOutcome(session *Session) *AnswerOutcome {
	return &AnswerOutcome{
		Correct:       false,
		ScheduleSaved: true,
		Finished:      true,
		Score:         session.Score(),
		Answered:      session.Answered(),
		Total:         session.Total(),
	}
}
