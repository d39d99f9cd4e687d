package payment

import "fmt"

// Phase リダイレクト決済フローのフェーズ
type Phase string

const (
	PhaseInitiated           Phase = "initiated"
	PhaseAwaitingRedirect    Phase = "awaiting_redirect"
	PhaseCanceled            Phase = "canceled"
	PhasePendingVerification Phase = "pending_verification"
	PhaseVerifiedPaid        Phase = "verified_paid"
	PhaseVerifiedFailed      Phase = "verified_failed"
	PhaseTerminal            Phase = "terminal"
)

var phaseTransitions = map[Phase][]Phase{
	PhaseInitiated:           {PhaseAwaitingRedirect},
	PhaseAwaitingRedirect:    {PhaseCanceled, PhasePendingVerification, PhaseVerifiedFailed},
	PhasePendingVerification: {PhaseVerifiedPaid, PhaseVerifiedFailed},
	PhaseCanceled:            {PhaseTerminal},
	PhaseVerifiedPaid:        {PhaseTerminal},
	PhaseVerifiedFailed:      {PhaseTerminal},
}

// String 文字列表現を返す
func (p Phase) String() string {
	return string(p)
}

// CanTransitionTo 指定フェーズへ遷移可能かどうかを返す
func (p Phase) CanTransitionTo(next Phase) bool {
	for _, allowed := range phaseTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Flow 1リクエスト分のフェーズ遷移を追跡する
type Flow struct {
	phase   Phase
	history []Phase
}

// NewFlow 指定フェーズから始まるFlowを作成
func NewFlow(start Phase) *Flow {
	return &Flow{
		phase:   start,
		history: []Phase{start},
	}
}

// Phase 現在のフェーズを返す
func (f *Flow) Phase() Phase {
	return f.phase
}

// History 遷移履歴を返す
func (f *Flow) History() []Phase {
	h := make([]Phase, len(f.history))
	copy(h, f.history)
	return h
}

// Transition フェーズを遷移
func (f *Flow) Transition(next Phase) error {
	if !f.phase.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidPhaseTransition, f.phase, next)
	}
	f.phase = next
	f.history = append(f.history, next)
	return nil
}

// State 現在のフェーズに対応するstateを返す
func (f *Flow) State() State {
	switch f.phase {
	case PhaseCanceled:
		return StateCanceled
	case PhaseVerifiedPaid:
		return StateSuccess
	case PhaseVerifiedFailed:
		return StateFailed
	default:
		return StatePending
	}
}
