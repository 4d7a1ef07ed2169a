package achieve

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/floorcast/floorcast-server/internal/events"
)

// Kind tags the business event feeding the rule engine.
type Kind string

const (
	KindSalesFigure       Kind = "sales_figure"
	KindSignups           Kind = "signups"
	KindStreak            Kind = "streak"
	KindRankChange        Kind = "rank_change"
	KindTrainingMilestone Kind = "training_milestone"
)

// BusinessEvent is the single inbound call the rule engine accepts.
type BusinessEvent struct {
	Kind     Kind
	UserID   int64
	UserName string
	Value    float64
	Meta     map[string]string
}

// Evaluator decides whether a business event earns an achievement and emits
// it through the event broadcast service.
type Evaluator interface {
	Evaluate(ctx context.Context, ev BusinessEvent) error
}

// Rules is the built-in threshold evaluator.
type Rules struct {
	events *events.Broadcaster
	log    *zerolog.Logger
}

// NewRules builds the evaluator over the broadcaster.
func NewRules(broadcaster *events.Broadcaster, logger *zerolog.Logger) *Rules {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Rules{events: broadcaster, log: logger}
}

// Evaluate applies the threshold rules for the event kind. Events below
// every threshold are a normal no-op.
func (r *Rules) Evaluate(_ context.Context, ev BusinessEvent) error {
	a, showcase := r.match(ev)
	if a == nil {
		return nil
	}
	r.log.Info().Int64("user_id", ev.UserID).Str("achievement", a.ID).
		Str("kind", string(ev.Kind)).Msg("achievement earned")
	r.events.AchievementEarned(ev.UserID, ev.UserName, *a)
	if showcase {
		r.events.AchievementShowcase(ev.UserID, ev.UserName, *a)
	}
	return nil
}

func (r *Rules) match(ev BusinessEvent) (*events.Achievement, bool) {
	switch ev.Kind {
	case KindSalesFigure:
		if ev.Value >= 10000 {
			return &events.Achievement{
				ID:          "big-closer",
				Name:        "Big Closer",
				Description: "Closed 10k in sales",
			}, true
		}
	case KindSignups:
		// The signups figure is the yearly total standing in for an
		// all-time counter.
		if ev.Value >= 100 {
			return &events.Achievement{
				ID:          "rainmaker",
				Name:        "Rainmaker",
				Description: "100 signups",
			}, true
		}
	case KindStreak:
		if ev.Value >= 30 {
			return &events.Achievement{
				ID:          "iron-streak",
				Name:        "Iron Streak",
				Description: "30 days in a row",
			}, true
		}
	case KindRankChange:
		if ev.Value > 0 && ev.Value <= 3 {
			return &events.Achievement{
				ID:          "podium-finish",
				Name:        "Podium Finish",
				Description: "Reached the top three",
			}, true
		}
	case KindTrainingMilestone:
		if ev.Value >= 90 {
			return &events.Achievement{
				ID:          "smooth-operator",
				Name:        "Smooth Operator",
				Description: "Scored 90+ in a roleplay session",
			}, false
		}
	}
	return nil, false
}
