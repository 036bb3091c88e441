package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"spookin_server/models"

	"github.com/google/uuid"
)

// Trick-or-treat rules. The odds are skewed against the player on
// purpose; the penalty floor keeps a losing streak from locking a user
// out entirely.
const (
	TreatProbability = 0.1
	MinTreatCandy    = 1
	MaxTreatCandy    = 5
	TrickPenalty     = 1

	DefaultSpinDelay  = 2 * time.Second
	DefaultGraceDelay = 10 * time.Second
	DefaultCooldown   = 30 * time.Second
)

var (
	ErrGuestSession   = errors.New("trick-or-treat requires a registered account")
	ErrCooldownActive = errors.New("wheel is cooling down")
	ErrSpinInProgress = errors.New("a spin is already in progress")
	ErrNoSuchSpin     = errors.New("no such spin")
)

type wheelProfileStore interface {
	GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	AdjustCandy(ctx context.Context, userID string, delta int) (*models.UserProfile, error)
	IncrementSpinCount(ctx context.Context, userID string) error
}

type wheelCooldownStore interface {
	StartCooldown(ctx context.Context, key string, d time.Duration) error
	CooldownRemaining(ctx context.Context, key string) (time.Duration, error)
}

type spinRecorder interface {
	RecordSpin(ctx context.Context, record models.SpinRecord) error
}

// SpinLogService persists spin audit records.
type SpinLogService struct {
	Dynamo *DynamoService
}

func (s *SpinLogService) RecordSpin(ctx context.Context, record models.SpinRecord) error {
	return s.Dynamo.PutItem(ctx, models.SpinsTable, record)
}

type pendingSpin struct {
	record     models.SpinRecord
	graceTimer *time.Timer
}

// WheelService runs the trick-or-treat wheel:
// Idle -> Spinning -> Resolved(Treat|Trick) -> Idle, with a cooldown
// orthogonal to the main state. Pending spins and their timers live in
// memory; resolutions are written through to the profile and spin log.
type WheelService struct {
	Profiles  wheelProfileStore
	Cooldowns wheelCooldownStore
	Log       spinRecorder

	SpinDelay  time.Duration
	GraceDelay time.Duration
	Cooldown   time.Duration

	mu      sync.Mutex
	rng     *rand.Rand
	draw    func(*rand.Rand) (string, int)
	pending map[string]*pendingSpin // spinID -> pending state
	byUser  map[string]string       // userID -> active spinID
}

func NewWheelService(profiles *UserProfileService, cooldowns *RedisService, spinLog *SpinLogService) *WheelService {
	return &WheelService{
		Profiles:   profiles,
		Cooldowns:  cooldowns,
		Log:        spinLog,
		SpinDelay:  DefaultSpinDelay,
		GraceDelay: DefaultGraceDelay,
		Cooldown:   DefaultCooldown,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		draw:       drawOutcome,
		pending:    make(map[string]*pendingSpin),
		byUser:     make(map[string]string),
	}
}

// drawOutcome resolves one spin: treat with probability 0.1 carrying
// 1-5 candies, trick otherwise.
func drawOutcome(r *rand.Rand) (string, int) {
	if r.Float64() < TreatProbability {
		return models.OutcomeTreat, MinTreatCandy + r.Intn(MaxTreatCandy-MinTreatCandy+1)
	}
	return models.OutcomeTrick, 0
}

// applyTrickPenalty returns the balance after a trick penalty. The
// penalty never drops the balance to zero or below: balances of 1 or
// less are left untouched.
func applyTrickPenalty(balance int) int {
	if balance > 1 {
		return balance - TrickPenalty
	}
	return balance
}

func cooldownKey(userID string) string {
	return "wheel:cooldown:" + userID
}

// Spin starts a new spin for a registered user. The lifetime spin
// counter is incremented immediately, before resolution, so abandoned
// spins still count. A spin during cooldown mutates nothing.
func (ws *WheelService) Spin(ctx context.Context, userID string, guest bool) (*models.SpinRecord, error) {
	if guest {
		return nil, ErrGuestSession
	}

	remaining, err := ws.Cooldowns.CooldownRemaining(ctx, cooldownKey(userID))
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		return nil, ErrCooldownActive
	}

	ws.mu.Lock()
	if spinID, ok := ws.byUser[userID]; ok {
		p := ws.pending[spinID]
		if p != nil && p.record.State == models.SpinStateSpinning {
			ws.mu.Unlock()
			return nil, ErrSpinInProgress
		}
		// stale resolved spin the user walked away from: forfeit it
		ws.forfeitLocked(spinID)
	}

	record := models.SpinRecord{
		SpinID:    uuid.NewString(),
		UserID:    userID,
		State:     models.SpinStateSpinning,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	ws.pending[record.SpinID] = &pendingSpin{record: record}
	ws.byUser[userID] = record.SpinID
	ws.mu.Unlock()

	if err := ws.Profiles.IncrementSpinCount(ctx, userID); err != nil {
		ws.mu.Lock()
		delete(ws.pending, record.SpinID)
		delete(ws.byUser, userID)
		ws.mu.Unlock()
		return nil, err
	}

	time.AfterFunc(ws.SpinDelay, func() { ws.resolve(record.SpinID) })

	return &record, nil
}

// resolve fires after the spin animation delay and draws the outcome.
func (ws *WheelService) resolve(spinID string) {
	ctx := context.Background()

	ws.mu.Lock()
	p, ok := ws.pending[spinID]
	if !ok || p.record.State != models.SpinStateSpinning {
		ws.mu.Unlock()
		return
	}

	outcome, amount := ws.draw(ws.rng)
	p.record.Outcome = outcome
	p.record.Amount = amount
	p.record.ResolvedAt = time.Now().UTC().Format(time.RFC3339)

	if outcome == models.OutcomeTreat {
		p.record.State = models.SpinStateTreat
	} else {
		p.record.State = models.SpinStateTrick
		p.graceTimer = time.AfterFunc(ws.GraceDelay, func() { ws.applyPenalty(spinID) })
	}
	record := p.record
	ws.mu.Unlock()

	// Cooldown starts at resolution regardless of outcome.
	if err := ws.Cooldowns.StartCooldown(ctx, cooldownKey(record.UserID), ws.Cooldown); err != nil {
		log.Printf("❌ Failed to start wheel cooldown for %s: %v", record.UserID, err)
	}
	ws.recordSpin(ctx, record)
}

// applyPenalty fires when a trick's grace timer expires undismissed.
func (ws *WheelService) applyPenalty(spinID string) {
	ctx := context.Background()

	ws.mu.Lock()
	p, ok := ws.pending[spinID]
	if !ok || p.record.State != models.SpinStateTrick {
		ws.mu.Unlock()
		return
	}
	p.record.State = models.SpinStatePenalized
	record := p.record
	delete(ws.pending, spinID)
	if ws.byUser[record.UserID] == spinID {
		delete(ws.byUser, record.UserID)
	}
	ws.mu.Unlock()

	profile, err := ws.Profiles.GetUserProfile(ctx, record.UserID)
	if err != nil {
		log.Printf("❌ Trick penalty: failed to load profile %s: %v", record.UserID, err)
		return
	}

	if newBalance := applyTrickPenalty(profile.Candy); newBalance != profile.Candy {
		if _, err := ws.Profiles.AdjustCandy(ctx, record.UserID, -TrickPenalty); err != nil {
			log.Printf("❌ Trick penalty: failed to debit candy for %s: %v", record.UserID, err)
		}
	}

	ws.recordSpin(ctx, record)
}

// Claim credits a treat. Rewards are only credited on this explicit
// step; abandoning the result forfeits them.
func (ws *WheelService) Claim(ctx context.Context, userID, spinID string) (*models.UserProfile, error) {
	ws.mu.Lock()
	p, ok := ws.pending[spinID]
	if !ok || p.record.UserID != userID || p.record.State != models.SpinStateTreat {
		ws.mu.Unlock()
		return nil, ErrNoSuchSpin
	}
	p.record.State = models.SpinStateClaimed
	record := p.record
	delete(ws.pending, spinID)
	if ws.byUser[userID] == spinID {
		delete(ws.byUser, userID)
	}
	ws.mu.Unlock()

	profile, err := ws.Profiles.AdjustCandy(ctx, userID, record.Amount)
	if err != nil {
		return nil, err
	}

	ws.recordSpin(ctx, record)
	return profile, nil
}

// Dismiss acknowledges an outcome. Dismissing a trick before the grace
// timer fires cancels the penalty at no cost; dismissing a treat
// forfeits the reward.
func (ws *WheelService) Dismiss(ctx context.Context, userID, spinID string) error {
	ws.mu.Lock()
	p, ok := ws.pending[spinID]
	if !ok || p.record.UserID != userID {
		ws.mu.Unlock()
		return ErrNoSuchSpin
	}

	switch p.record.State {
	case models.SpinStateTrick:
		if p.graceTimer != nil {
			p.graceTimer.Stop()
		}
		p.record.State = models.SpinStateDismissed
	case models.SpinStateTreat:
		p.record.State = models.SpinStateForfeited
	default:
		ws.mu.Unlock()
		return ErrNoSuchSpin
	}

	record := p.record
	delete(ws.pending, spinID)
	if ws.byUser[userID] == spinID {
		delete(ws.byUser, userID)
	}
	ws.mu.Unlock()

	ws.recordSpin(ctx, record)
	return nil
}

// Status reports the user's pending spin (if any) and the cooldown left,
// for the client's depleting bar.
func (ws *WheelService) Status(ctx context.Context, userID string) (*models.SpinRecord, time.Duration, error) {
	remaining, err := ws.Cooldowns.CooldownRemaining(ctx, cooldownKey(userID))
	if err != nil {
		return nil, 0, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	if spinID, ok := ws.byUser[userID]; ok {
		if p, ok := ws.pending[spinID]; ok {
			record := p.record
			return &record, remaining, nil
		}
	}
	return nil, remaining, nil
}

// forfeitLocked drops a stale resolved spin. Caller holds ws.mu.
func (ws *WheelService) forfeitLocked(spinID string) {
	p, ok := ws.pending[spinID]
	if !ok {
		return
	}
	if p.graceTimer != nil {
		p.graceTimer.Stop()
	}
	p.record.State = models.SpinStateForfeited
	delete(ws.pending, spinID)
	if ws.byUser[p.record.UserID] == spinID {
		delete(ws.byUser, p.record.UserID)
	}
	go ws.recordSpin(context.Background(), p.record)
}

func (ws *WheelService) recordSpin(ctx context.Context, record models.SpinRecord) {
	if ws.Log == nil {
		return
	}
	if err := ws.Log.RecordSpin(ctx, record); err != nil {
		log.Printf("❌ Failed to record spin %s: %v", record.SpinID, err)
	}
}
