package queue

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/konivrer/ranked/internal/alert"
	"github.com/konivrer/ranked/internal/metrics"
	"github.com/konivrer/ranked/internal/pubsub"
	"github.com/konivrer/ranked/internal/quality"
)

// How long terminal sessions stay visible to Status polling.
const terminalRetention = time.Minute

type cancelRequest struct {
	sessionID string
	reply     chan error
}

type pool struct {
	cfg      Config
	metrics  metrics.Metrics
	counters metrics.MetricsStore
	notifier alert.Notifier
	events   pubsub.PubSubClient

	ops       chan func()
	cancels   chan cancelRequest
	proposed  chan MatchProposal
	confirmed chan MatchProposal
	stopCh    chan struct{}
	done      chan struct{}

	// Worker-owned state. Only the worker goroutine touches these.
	sessions   map[string]*SearchSession
	byPlayer   map[string]string
	proposals  map[string]*MatchProposal
	terminal   map[string]*SearchSession
	terminalAt map[string]time.Time
	estimator  *waitEstimator
}

// New creates a new matchmaking Pool.
func New(cfg Config, m metrics.Metrics, counters metrics.MetricsStore, notifier alert.Notifier, events pubsub.PubSubClient) Pool {
	return newPool(cfg, m, counters, notifier, events)
}

func newPool(cfg Config, m metrics.Metrics, counters metrics.MetricsStore, notifier alert.Notifier, events pubsub.PubSubClient) *pool {
	return &pool{
		cfg:        cfg,
		metrics:    m,
		counters:   counters,
		notifier:   notifier,
		events:     events,
		ops:        make(chan func(), 64),
		cancels:    make(chan cancelRequest, 64),
		proposed:   make(chan MatchProposal, 128),
		confirmed:  make(chan MatchProposal, 128),
		stopCh:     make(chan struct{}),
		done:       make(chan struct{}),
		sessions:   make(map[string]*SearchSession),
		byPlayer:   make(map[string]string),
		proposals:  make(map[string]*MatchProposal),
		terminal:   make(map[string]*SearchSession),
		terminalAt: make(map[string]time.Time),
		estimator:  newWaitEstimator(),
	}
}

func (p *pool) Start(ctx context.Context) {
	go p.run(ctx)
}

func (p *pool) Stop() {
	close(p.stopCh)
	<-p.done
}

func (p *pool) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.cfg.TickInterval)
	defer ticker.Stop()

	log.Info("Matchmaking pool started", "tick", p.cfg.TickInterval, "proposalTTL", p.cfg.ProposalTTL)
	for {
		// Cancellations jump the queue so a withdrawn player is never
		// paired by work already sitting in the ops channel.
		p.drainCancels()

		select {
		case <-ctx.Done():
			log.Info("Matchmaking pool stopping", "reason", "context cancelled")
			return
		case <-p.stopCh:
			log.Info("Matchmaking pool stopping", "reason", "stop requested")
			return
		case req := <-p.cancels:
			req.reply <- p.cancel(time.Now(), req.sessionID)
		case op := <-p.ops:
			op()
		case now := <-ticker.C:
			p.safeEvaluate(now)
		}
	}
}

func (p *pool) drainCancels() {
	for {
		select {
		case req := <-p.cancels:
			req.reply <- p.cancel(time.Now(), req.sessionID)
		default:
			return
		}
	}
}

// do runs fn on the worker goroutine and waits for it to finish.
func (p *pool) do(fn func()) {
	doneCh := make(chan struct{})
	p.ops <- func() {
		fn()
		close(doneCh)
	}
	<-doneCh
}

func (p *pool) Enqueue(playerID string, snapshot quality.PlayerSnapshot, prefs Preferences) (SearchSession, error) {
	if err := prefs.Validate(); err != nil {
		return SearchSession{}, err
	}
	var (
		session SearchSession
		err     error
	)
	p.do(func() {
		var s *SearchSession
		s, err = p.enqueue(time.Now(), playerID, snapshot, prefs)
		if s != nil {
			session = *s
		}
	})
	return session, err
}

func (p *pool) Cancel(sessionID string) error {
	req := cancelRequest{sessionID: sessionID, reply: make(chan error, 1)}
	p.cancels <- req
	return <-req.reply
}

func (p *pool) Status(sessionID string) (SessionStatus, error) {
	var (
		status SessionStatus
		err    error
	)
	p.do(func() {
		status, err = p.status(time.Now(), sessionID)
	})
	return status, err
}

func (p *pool) Respond(sessionID, proposalID string, accept bool) error {
	var err error
	p.do(func() {
		err = p.respond(time.Now(), sessionID, proposalID, accept)
	})
	return err
}

func (p *pool) Proposed() <-chan MatchProposal {
	return p.proposed
}

func (p *pool) Confirmed() <-chan MatchProposal {
	return p.confirmed
}

func (p *pool) Depth() int {
	var depth int
	p.do(func() {
		depth = p.searchingCount()
	})
	return depth
}

func (p *pool) enqueue(now time.Time, playerID string, snapshot quality.PlayerSnapshot, prefs Preferences) (*SearchSession, error) {
	if existing, ok := p.byPlayer[playerID]; ok {
		if _, active := p.sessions[existing]; active {
			return nil, ErrAlreadyInQueue
		}
	}

	s := &SearchSession{
		SessionID:   uuid.NewString(),
		PlayerID:    playerID,
		EnqueuedAt:  now,
		Preferences: prefs,
		State:       StateSearching,
		Snapshot:    snapshot,
	}
	p.sessions[s.SessionID] = s
	p.byPlayer[playerID] = s.SessionID

	p.metrics.IncEnqueued()
	p.counters.Increment(metrics.KeySearchesStarted)
	p.metrics.SetQueueDepth(float64(p.searchingCount()))
	log.Info("Search session enqueued", "sessionID", s.SessionID, "playerID", playerID, "preset", prefs.SkillRange, "region", prefs.Region)
	return s, nil
}

func (p *pool) cancel(now time.Time, sessionID string) error {
	s, ok := p.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}

	if s.State == StateMatchProposed {
		p.resolveProposal(s.proposalID)
	}
	p.retire(s, StateCancelled, now)

	p.metrics.IncCancelled()
	p.metrics.SetQueueDepth(float64(p.searchingCount()))
	log.Info("Search session cancelled", "sessionID", sessionID, "playerID", s.PlayerID)
	return nil
}

func (p *pool) status(now time.Time, sessionID string) (SessionStatus, error) {
	s, ok := p.sessions[sessionID]
	if !ok {
		if t, retained := p.terminal[sessionID]; retained {
			return SessionStatus{
				SessionID: t.SessionID,
				State:     t.State,
				Elapsed:   now.Sub(t.EnqueuedAt),
			}, nil
		}
		return SessionStatus{}, ErrSessionNotFound
	}

	status := SessionStatus{
		SessionID: s.SessionID,
		State:     s.State,
		Elapsed:   now.Sub(s.EnqueuedAt),
	}

	// The reported estimate never shrinks while a player watches it,
	// except at the moment the relaxation curve visibly widens.
	estimate := p.estimator.estimate(s.Preferences.SkillRange)
	if !s.stageAdvanced && s.lastEstimate > 0 && estimate < s.lastEstimate {
		estimate = s.lastEstimate
	}
	s.stageAdvanced = false
	s.lastEstimate = estimate
	status.EstimatedWait = estimate

	if s.State == StateMatchProposed {
		if prop, ok := p.proposals[s.proposalID]; ok {
			propCopy := *prop
			status.Proposal = &propCopy
		}
	}
	return status, nil
}

func (p *pool) respond(now time.Time, sessionID, proposalID string, accept bool) error {
	prop, ok := p.proposals[proposalID]
	if !ok {
		return ErrStaleProposal
	}
	if now.After(prop.ExpiresAt) {
		// The ticker will sweep it; responses raced the expiry and lost.
		return ErrStaleProposal
	}

	switch sessionID {
	case prop.SessionA:
		if accept {
			prop.acceptedA = true
		}
	case prop.SessionB:
		if accept {
			prop.acceptedB = true
		}
	default:
		return ErrSessionNotFound
	}

	if !accept {
		log.Info("Match proposal declined", "proposalID", proposalID, "sessionID", sessionID)
		p.metrics.IncProposalsDeclined()
		p.releaseProposal(prop)
		return nil
	}

	if prop.acceptedA && prop.acceptedB {
		p.confirm(now, prop)
	}
	return nil
}

// confirm finalizes a mutually accepted proposal.
func (p *pool) confirm(now time.Time, prop *MatchProposal) {
	delete(p.proposals, prop.ID)

	for _, sid := range []string{prop.SessionA, prop.SessionB} {
		s, ok := p.sessions[sid]
		if !ok {
			continue
		}
		wait := now.Sub(s.EnqueuedAt)
		p.estimator.observe(s.Preferences.SkillRange, wait)
		p.metrics.ObserveTimeToMatch(wait.Seconds())
		p.retire(s, StateMatched, now)
	}

	p.metrics.IncMatches()
	p.counters.Increment(metrics.KeyMatchesMade)
	p.metrics.SetQueueDepth(float64(p.searchingCount()))
	log.Info("Match confirmed", "proposalID", prop.ID, "playerA", prop.PlayerA, "playerB", prop.PlayerB, "quality", prop.QualityScore)

	if p.events != nil {
		event := pubsub.MatchConfirmedEvent{
			ProposalID:   prop.ID,
			PlayerA:      prop.PlayerA,
			PlayerB:      prop.PlayerB,
			QualityScore: prop.QualityScore,
		}
		go func() {
			if err := p.events.SendMessage(pubsub.EventMatchConfirmed, event); err != nil {
				log.Error("Failed to publish match confirmation", "error", err, "proposalID", event.ProposalID)
			}
		}()
	}

	select {
	case p.confirmed <- *prop:
	default:
		log.Warn("Confirmed match channel full, dropping delivery", "proposalID", prop.ID)
	}
}

// releaseProposal tears a proposal down and returns both sessions to the
// pool with their original queue positions.
func (p *pool) releaseProposal(prop *MatchProposal) {
	delete(p.proposals, prop.ID)
	for _, sid := range []string{prop.SessionA, prop.SessionB} {
		if s, ok := p.sessions[sid]; ok && s.State == StateMatchProposed {
			s.State = StateSearching
			s.proposalID = ""
		}
	}
}

// resolveProposal releases a proposal when one participant leaves. The
// peer returns to searching via releaseProposal; the leaver's own retire
// happens at the call site.
func (p *pool) resolveProposal(proposalID string) {
	prop, ok := p.proposals[proposalID]
	if !ok {
		return
	}
	p.metrics.IncProposalsExpired()
	p.releaseProposal(prop)
}

// retire moves a session to a terminal state, retained briefly for Status.
func (p *pool) retire(s *SearchSession, state SessionState, now time.Time) {
	s.State = state
	s.proposalID = ""
	delete(p.sessions, s.SessionID)
	delete(p.byPlayer, s.PlayerID)
	p.terminal[s.SessionID] = s
	p.terminalAt[s.SessionID] = now
}

func (p *pool) searchingCount() int {
	n := 0
	for _, s := range p.sessions {
		if s.State == StateSearching {
			n++
		}
	}
	return n
}

// safeEvaluate guards the evaluation cycle so a scoring bug cannot kill
// the worker. Failures are alerted, not fatal.
func (p *pool) safeEvaluate(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			reason := fmt.Sprintf("evaluation panicked: %v", r)
			log.Error("Queue evaluation failed", "panic", r)
			if p.notifier != nil {
				go func() {
					_ = p.notifier.SendEvaluationFailureAlert(reason, p.cfg.DryRun)
				}()
			}
		}
	}()
	p.evaluate(now)
}

// evaluate runs one matchmaking cycle: sweep expired proposals and
// sessions, advance relaxation stages, then score and pair candidates.
func (p *pool) evaluate(now time.Time) {
	start := time.Now()
	defer func() {
		p.metrics.ObserveEvaluationDuration(time.Since(start).Seconds())
	}()

	p.sweepProposals(now)
	p.sweepTerminal(now)

	searching := p.searchingSessions(now)

	pairs := p.scorePairs(now, searching)
	for _, pair := range pairs {
		a, b := pair.a, pair.b
		if a.State != StateSearching || b.State != StateSearching {
			continue
		}
		p.propose(now, a, b, pair.score)
	}

	p.metrics.SetQueueDepth(float64(p.searchingCount()))
}

// sweepProposals expires proposals whose acceptance window has closed.
func (p *pool) sweepProposals(now time.Time) {
	for id, prop := range p.proposals {
		if now.After(prop.ExpiresAt) {
			log.Info("Match proposal expired", "proposalID", id)
			p.metrics.IncProposalsExpired()
			p.releaseProposal(prop)
		}
	}
}

func (p *pool) sweepTerminal(now time.Time) {
	for id, at := range p.terminalAt {
		if now.Sub(at) > terminalRetention {
			delete(p.terminal, id)
			delete(p.terminalAt, id)
		}
	}
}

// searchingSessions returns active searchers ordered longest-waiting
// first, applying the max-wait bound, long-wait alerting and relaxation
// stage bookkeeping along the way.
func (p *pool) searchingSessions(now time.Time) []*SearchSession {
	searching := make([]*SearchSession, 0, len(p.sessions))
	for _, s := range p.sessions {
		if s.State != StateSearching {
			continue
		}
		elapsed := now.Sub(s.EnqueuedAt)

		if p.cfg.MaxWait > 0 && elapsed >= p.cfg.MaxWait {
			log.Info("Search session expired", "sessionID", s.SessionID, "playerID", s.PlayerID, "waited", elapsed)
			p.metrics.IncSessionsExpired()
			p.retire(s, StateExpired, now)
			continue
		}

		if p.notifier != nil && p.cfg.LongWaitAlert > 0 && elapsed >= p.cfg.LongWaitAlert && !s.alerted {
			s.alerted = true
			playerID, sessionID := s.PlayerID, s.SessionID
			go func() {
				_ = p.notifier.SendLongWaitAlert(playerID, sessionID, elapsed, p.cfg.DryRun)
			}()
		}

		if curve, ok := p.cfg.Curves[s.Preferences.SkillRange]; ok {
			if stage := curve.Stage(elapsed); stage > s.relaxStage {
				s.relaxStage = stage
				s.stageAdvanced = true
			}
		}

		searching = append(searching, s)
	}

	sort.Slice(searching, func(i, j int) bool {
		return searching[i].EnqueuedAt.Before(searching[j].EnqueuedAt)
	})
	if p.cfg.CandidateWindow > 0 && len(searching) > p.cfg.CandidateWindow {
		searching = searching[:p.cfg.CandidateWindow]
	}
	return searching
}

type scoredPair struct {
	a, b  *SearchSession
	score float64
}

// scorePairs scores every compatible pair above its acceptance threshold
// and orders them best first. A pair of mixed presets must clear the
// stricter of the two thresholds.
func (p *pool) scorePairs(now time.Time, searching []*SearchSession) []scoredPair {
	var pairs []scoredPair
	for i := 0; i < len(searching); i++ {
		for j := i + 1; j < len(searching); j++ {
			a, b := searching[i], searching[j]
			if a.Preferences.Region != b.Preferences.Region {
				continue
			}
			if a.Preferences.Format != b.Preferences.Format {
				continue
			}

			threshold := p.pairThreshold(now, a, b)
			score := quality.Score(a.Snapshot, b.Snapshot, p.cfg.Weights)
			if score >= threshold {
				pairs = append(pairs, scoredPair{a: a, b: b, score: score})
			}
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].score != pairs[j].score {
			return pairs[i].score > pairs[j].score
		}
		// Equal quality goes to the pair containing the longest waiter.
		return earliest(pairs[i]).Before(earliest(pairs[j]))
	})
	return pairs
}

func earliest(p scoredPair) time.Time {
	if p.a.EnqueuedAt.Before(p.b.EnqueuedAt) {
		return p.a.EnqueuedAt
	}
	return p.b.EnqueuedAt
}

func (p *pool) pairThreshold(now time.Time, a, b *SearchSession) float64 {
	ta := p.cfg.Curves[a.Preferences.SkillRange].Threshold(now.Sub(a.EnqueuedAt))
	tb := p.cfg.Curves[b.Preferences.SkillRange].Threshold(now.Sub(b.EnqueuedAt))
	if ta > tb {
		return ta
	}
	return tb
}

func (p *pool) propose(now time.Time, a, b *SearchSession, score float64) {
	prop := &MatchProposal{
		ID:           uuid.NewString(),
		SessionA:     a.SessionID,
		SessionB:     b.SessionID,
		PlayerA:      a.PlayerID,
		PlayerB:      b.PlayerID,
		QualityScore: score,
		CreatedAt:    now,
		ExpiresAt:    now.Add(p.cfg.ProposalTTL),
	}
	p.proposals[prop.ID] = prop

	a.State = StateMatchProposed
	a.proposalID = prop.ID
	b.State = StateMatchProposed
	b.proposalID = prop.ID

	p.metrics.IncProposals()
	p.metrics.ObserveMatchQuality(score)
	log.Info("Match proposed", "proposalID", prop.ID, "playerA", a.PlayerID, "playerB", b.PlayerID, "quality", score)

	if p.events != nil {
		event := *prop
		go func() {
			if err := p.events.SendMessage(pubsub.EventMatchProposed, event); err != nil {
				log.Error("Failed to publish match proposal", "error", err, "proposalID", event.ID)
			}
		}()
	}

	select {
	case p.proposed <- *prop:
	default:
		log.Warn("Proposed match channel full, dropping delivery", "proposalID", prop.ID)
	}
}
