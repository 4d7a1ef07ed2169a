package roleplay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/floorcast/floorcast-server/internal/achieve"
	"github.com/floorcast/floorcast-server/internal/core"
	"github.com/floorcast/floorcast-server/internal/events"
	"github.com/floorcast/floorcast-server/internal/progression"
	"github.com/floorcast/floorcast-server/internal/store"
	"github.com/floorcast/floorcast-server/internal/utils"
)

const (
	generateTemperature = 0.7

	fallbackReply = "Sorry, could you repeat that? I got distracted for a second."
	doorSlamReply = "You know what, this isn't going anywhere. I'm done here."
)

// Engine drives roleplay sessions: a two-state machine (ACTIVE, ENDED)
// mutated exactly once per inbound trainee message. Processing is serialized
// per session identifier; the generator call is a suspension point and two
// near-simultaneous messages for one session must not interleave.
type Engine struct {
	sessions  store.SessionStore
	scenarios *ScenarioSet
	gen       Generator
	detector  Detector
	events    *events.Broadcaster
	progress  *progression.Service
	achieve   achieve.Evaluator
	locks     *keyedMutex
	log       *zerolog.Logger
	now       func() time.Time
}

// NewEngine wires the engine. The progression service and achievement
// evaluator are optional collaborators.
func NewEngine(sessions store.SessionStore, scenarios *ScenarioSet, gen Generator,
	detector Detector, broadcaster *events.Broadcaster, progress *progression.Service,
	evaluator achieve.Evaluator, logger *zerolog.Logger) *Engine {
	if detector == nil {
		detector = &HeuristicDetector{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Engine{
		sessions:  sessions,
		scenarios: scenarios,
		gen:       gen,
		detector:  detector,
		events:    broadcaster,
		progress:  progress,
		achieve:   evaluator,
		locks:     newKeyedMutex(),
		log:       logger,
		now:       time.Now,
	}
}

// StartSession creates a new ACTIVE session for the scenario.
func (e *Engine) StartSession(ctx context.Context, userID int64, scenarioID string) (*store.Session, error) {
	scn, ok := e.scenarios.Get(scenarioID)
	if !ok {
		return nil, &core.CoreError{Code: core.ErrCodeBadRequest, Message: fmt.Sprintf("unknown scenario %q", scenarioID)}
	}
	now := e.now()
	sess := &store.Session{
		ID:         utils.NewSessionID(),
		UserID:     userID,
		ScenarioID: scn.ID,
		Difficulty: scn.Difficulty,
		Transcript: []store.SessionMessage{{
			Role:      store.RoleSystem,
			Text:      "Scenario started: " + scn.Name,
			CreatedAt: now,
		}},
		Score:     50,
		Status:    store.SessionActive,
		CreatedAt: now,
	}
	if err := e.sessions.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	e.log.Info().Str("session_id", sess.ID).Int64("user_id", userID).
		Str("scenario", scn.ID).Msg("roleplay session started")
	return sess, nil
}

// GetSession returns a session owned by the user.
func (e *Engine) GetSession(ctx context.Context, userID int64, sessionID string) (*store.Session, error) {
	sess, err := e.sessions.GetSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &core.CoreError{Code: core.ErrCodeSessionNotFound, Message: "session not found"}
	}
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, &core.CoreError{Code: core.ErrCodeSessionNotFound, Message: "session not found"}
	}
	return sess, nil
}

// HandleMessage processes one inbound trainee message and implements
// core.RoleplayHandler. The updated session is persisted before the response
// event is emitted.
func (e *Engine) HandleMessage(ctx context.Context, userID int64, sessionID, text string) error {
	e.events.RoleplayMessageReceived(sessionID)

	unlock := e.locks.lock(sessionID)
	defer unlock()

	sess, err := e.GetSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}

	if sess.Status == store.SessionEnded {
		// Terminal replay: same payload every time, nothing mutated, the
		// generator is never consulted.
		e.events.RoleplayResponse(e.terminalPayload(sess))
		return nil
	}

	scn, _ := e.scenarios.Get(sess.ScenarioID)
	now := e.now()

	scoreRequested := isScoreRequest(text)
	firstUserMessage := sess.UserMessageCount() == 0

	sess.Transcript = append(sess.Transcript, store.SessionMessage{
		Role:      store.RoleUser,
		Text:      text,
		CreatedAt: now,
	})

	var feedback []string
	if !scoreRequested {
		mistakes := e.detector.Detect(text, SessionContext{
			FirstUserMessage: firstUserMessage,
			MistakeCount:     sess.MistakeCount,
		})
		sess.MistakeCount += len(mistakes)
		for _, m := range mistakes {
			feedback = append(feedback, m.Feedback)
		}
	}

	doorSlammed := !scn.Unbounded() && sess.MistakeCount >= scn.DoorSlamThreshold
	ended := scoreRequested || doorSlammed

	e.events.RoleplayTyping(sessionID)

	var reply, summary string
	switch {
	case doorSlammed:
		sess.DoorSlammed = true
		sess.Score = 0
		sess.XPEarned = 0
		reply = doorSlamReply
		summary = fmt.Sprintf("The prospect ended the conversation after %d mistakes.", sess.MistakeCount)
	case scoreRequested:
		sess.Score = runningScore(sess.UserMessageCount(), sess.MistakeCount)
		sess.XPEarned = int(float64(sess.Score) * Multiplier(sess.Difficulty))
		summary = fmt.Sprintf("Final score %d with %d mistake(s) over %d message(s). %d XP awarded.",
			sess.Score, sess.MistakeCount, sess.UserMessageCount()-1, sess.XPEarned)
		reply = "That's a wrap. " + summary
	default:
		sess.Score = runningScore(sess.UserMessageCount(), sess.MistakeCount)
		reply, err = e.gen.Generate(ctx, scn.Persona, sess.Transcript, generateTemperature)
		if err != nil {
			// The trainee's message must not be lost: keep it, substitute a
			// fallback reply, and leave the session ACTIVE.
			e.log.Warn().Err(err).Str("session_id", sessionID).Msg("generator failed, using fallback")
			reply = fallbackReply
		}
	}

	sess.Transcript = append(sess.Transcript, store.SessionMessage{
		Role:      store.RoleAssistant,
		Text:      reply,
		CreatedAt: e.now(),
	})
	if ended {
		sess.Status = store.SessionEnded
		completed := e.now()
		sess.CompletedAt = &completed
	}

	if err := e.sessions.UpdateSession(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	payload := events.RoleplayResponsePayload{
		SessionID:    sessionID,
		Message:      reply,
		Feedback:     feedback,
		MistakeCount: sess.MistakeCount,
		SessionEnded: ended,
		DoorSlammed:  sess.DoorSlammed,
		Summary:      summary,
	}
	if ended {
		payload.FinalScore = &sess.Score
		payload.XPAwarded = &sess.XPEarned
	}
	e.events.RoleplayResponse(payload)

	if ended && !sess.DoorSlammed && sess.XPEarned > 0 {
		e.finishTraining(ctx, sess)
	}
	return nil
}

// finishTraining feeds the completed session into the progression counters
// and the achievement pipeline.
func (e *Engine) finishTraining(ctx context.Context, sess *store.Session) {
	if e.progress != nil {
		if _, err := e.progress.Award(ctx, sess.UserID, sess.XPEarned); err != nil {
			e.log.Warn().Err(err).Int64("user_id", sess.UserID).Msg("progress award failed")
		}
	}
	if e.achieve != nil {
		err := e.achieve.Evaluate(ctx, achieve.BusinessEvent{
			Kind:   achieve.KindTrainingMilestone,
			UserID: sess.UserID,
			Value:  float64(sess.Score),
			Meta: map[string]string{
				"scenario_id": sess.ScenarioID,
				"session_id":  sess.ID,
			},
		})
		if err != nil {
			e.log.Warn().Err(err).Str("session_id", sess.ID).Msg("achievement evaluation failed")
		}
	}
}

func (e *Engine) terminalPayload(sess *store.Session) events.RoleplayResponsePayload {
	message := "This session has ended."
	summary := fmt.Sprintf("Final score %d, %d XP.", sess.Score, sess.XPEarned)
	if sess.DoorSlammed {
		message = "The door stays closed. This session is over."
		summary = "The prospect slammed the door; the session scored 0."
	}
	score := sess.Score
	xp := sess.XPEarned
	return events.RoleplayResponsePayload{
		SessionID:    sess.ID,
		Message:      message,
		MistakeCount: sess.MistakeCount,
		SessionEnded: true,
		DoorSlammed:  sess.DoorSlammed,
		FinalScore:   &score,
		XPAwarded:    &xp,
		Summary:      summary,
	}
}

// runningScore computes the live score while a session is ACTIVE and not
// door-slammed.
func runningScore(userMessages, mistakes int) int {
	bonus := userMessages * 5
	if bonus > 30 {
		bonus = 30
	}
	score := 50 + bonus - mistakes*10
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
