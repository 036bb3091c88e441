package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"spookin_server/models"
)

type fakeProfileStore struct {
	mu    sync.Mutex
	candy map[string]int
	spins map[string]int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{candy: make(map[string]int), spins: make(map[string]int)}
}

func (f *fakeProfileStore) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.UserProfile{UserID: userID, Candy: f.candy[userID], Spins: f.spins[userID]}, nil
}

func (f *fakeProfileStore) AdjustCandy(ctx context.Context, userID string, delta int) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candy[userID] += delta
	return &models.UserProfile{UserID: userID, Candy: f.candy[userID], Spins: f.spins[userID]}, nil
}

func (f *fakeProfileStore) IncrementSpinCount(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spins[userID]++
	return nil
}

func (f *fakeProfileStore) snapshot(userID string) (candy, spins int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candy[userID], f.spins[userID]
}

type fakeCooldownStore struct {
	mu    sync.Mutex
	until map[string]time.Time
}

func newFakeCooldownStore() *fakeCooldownStore {
	return &fakeCooldownStore{until: make(map[string]time.Time)}
}

func (f *fakeCooldownStore) StartCooldown(ctx context.Context, key string, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.until[key] = time.Now().Add(d)
	return nil
}

func (f *fakeCooldownStore) CooldownRemaining(ctx context.Context, key string) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	remaining := time.Until(f.until[key])
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func newTestWheel(profiles *fakeProfileStore, cooldowns *fakeCooldownStore) *WheelService {
	return &WheelService{
		Profiles:   profiles,
		Cooldowns:  cooldowns,
		SpinDelay:  5 * time.Millisecond,
		GraceDelay: 150 * time.Millisecond,
		Cooldown:   300 * time.Millisecond,
		rng:        rand.New(rand.NewSource(1)),
		draw:       drawOutcome,
		pending:    make(map[string]*pendingSpin),
		byUser:     make(map[string]string),
	}
}

// waitForResolution polls until the pending spin leaves the spinning
// state or the deadline passes.
func waitForResolution(t *testing.T, ws *WheelService, userID string) *models.SpinRecord {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		record, _, err := ws.Status(context.Background(), userID)
		if err != nil {
			t.Fatalf("Status() error: %v", err)
		}
		if record != nil && record.State != models.SpinStateSpinning {
			return record
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("spin never resolved")
	return nil
}

func TestDrawOutcome_Distribution(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	const n = 100000
	tricks := 0
	for i := 0; i < n; i++ {
		outcome, amount := drawOutcome(r)
		switch outcome {
		case models.OutcomeTrick:
			tricks++
			if amount != 0 {
				t.Fatalf("trick carried amount %d", amount)
			}
		case models.OutcomeTreat:
			if amount < MinTreatCandy || amount > MaxTreatCandy {
				t.Fatalf("treat amount %d outside [%d,%d]", amount, MinTreatCandy, MaxTreatCandy)
			}
		default:
			t.Fatalf("unknown outcome %q", outcome)
		}
	}

	fraction := float64(tricks) / float64(n)
	if fraction < 0.89 || fraction > 0.91 {
		t.Errorf("trick fraction = %.4f, want within 0.90 ± 0.01", fraction)
	}
}

func TestApplyTrickPenalty_Floor(t *testing.T) {
	tests := []struct {
		balance int
		want    int
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{5, 4},
		{100, 99},
	}
	for _, tt := range tests {
		if got := applyTrickPenalty(tt.balance); got != tt.want {
			t.Errorf("applyTrickPenalty(%d) = %d, want %d", tt.balance, got, tt.want)
		}
	}
}

func TestSpin_GuestBlocked(t *testing.T) {
	profiles := newFakeProfileStore()
	ws := newTestWheel(profiles, newFakeCooldownStore())

	_, err := ws.Spin(context.Background(), "ghost", true)
	if !errors.Is(err, ErrGuestSession) {
		t.Fatalf("Spin() error = %v, want ErrGuestSession", err)
	}

	if _, spins := profiles.snapshot("ghost"); spins != 0 {
		t.Errorf("guest spin mutated spin counter: %d", spins)
	}
}

func TestSpin_CooldownGate(t *testing.T) {
	profiles := newFakeProfileStore()
	cooldowns := newFakeCooldownStore()
	ws := newTestWheel(profiles, cooldowns)

	cooldowns.StartCooldown(context.Background(), cooldownKey("u1"), time.Minute)

	_, err := ws.Spin(context.Background(), "u1", false)
	if !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("Spin() error = %v, want ErrCooldownActive", err)
	}

	if _, spins := profiles.snapshot("u1"); spins != 0 {
		t.Errorf("cooldown spin mutated spin counter: %d", spins)
	}
}

func TestSpin_CountsImmediately(t *testing.T) {
	profiles := newFakeProfileStore()
	ws := newTestWheel(profiles, newFakeCooldownStore())

	record, err := ws.Spin(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("Spin() error: %v", err)
	}
	if record.State != models.SpinStateSpinning {
		t.Errorf("new spin state = %q, want %q", record.State, models.SpinStateSpinning)
	}

	// counted before resolution, so abandoning still counts
	if _, spins := profiles.snapshot("u1"); spins != 1 {
		t.Errorf("spin counter = %d, want 1", spins)
	}
}

func TestTrick_GracePenalty(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.candy["u1"] = 5
	ws := newTestWheel(profiles, newFakeCooldownStore())
	ws.draw = func(*rand.Rand) (string, int) { return models.OutcomeTrick, 0 }

	if _, err := ws.Spin(context.Background(), "u1", false); err != nil {
		t.Fatalf("Spin() error: %v", err)
	}

	record := waitForResolution(t, ws, "u1")
	if record.State != models.SpinStateTrick {
		t.Fatalf("resolved state = %q, want trick", record.State)
	}

	// let the grace timer expire
	time.Sleep(ws.GraceDelay + 50*time.Millisecond)

	candy, spins := profiles.snapshot("u1")
	if candy != 4 {
		t.Errorf("candy after penalty = %d, want 4", candy)
	}
	if spins != 1 {
		t.Errorf("spin counter = %d, want 1", spins)
	}
}

func TestTrick_PenaltyFloorProtectsBalanceOfOne(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.candy["u1"] = 1
	ws := newTestWheel(profiles, newFakeCooldownStore())
	ws.draw = func(*rand.Rand) (string, int) { return models.OutcomeTrick, 0 }

	if _, err := ws.Spin(context.Background(), "u1", false); err != nil {
		t.Fatalf("Spin() error: %v", err)
	}
	waitForResolution(t, ws, "u1")
	time.Sleep(ws.GraceDelay + 50*time.Millisecond)

	candy, spins := profiles.snapshot("u1")
	if candy != 1 {
		t.Errorf("candy = %d, want 1 (floor protection)", candy)
	}
	if spins != 1 {
		t.Errorf("spin counter = %d, want 1", spins)
	}
}

func TestTrick_DismissCancelsPenalty(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.candy["u1"] = 5
	ws := newTestWheel(profiles, newFakeCooldownStore())
	ws.draw = func(*rand.Rand) (string, int) { return models.OutcomeTrick, 0 }

	if _, err := ws.Spin(context.Background(), "u1", false); err != nil {
		t.Fatalf("Spin() error: %v", err)
	}
	record := waitForResolution(t, ws, "u1")

	if err := ws.Dismiss(context.Background(), "u1", record.SpinID); err != nil {
		t.Fatalf("Dismiss() error: %v", err)
	}

	// wait past where the grace timer would have fired
	time.Sleep(ws.GraceDelay + 50*time.Millisecond)

	if candy, _ := profiles.snapshot("u1"); candy != 5 {
		t.Errorf("candy after dismissed trick = %d, want 5", candy)
	}
}

func TestTreat_ClaimCredits(t *testing.T) {
	profiles := newFakeProfileStore()
	profiles.candy["u1"] = 2
	ws := newTestWheel(profiles, newFakeCooldownStore())
	ws.draw = func(*rand.Rand) (string, int) { return models.OutcomeTreat, 3 }

	if _, err := ws.Spin(context.Background(), "u1", false); err != nil {
		t.Fatalf("Spin() error: %v", err)
	}
	record := waitForResolution(t, ws, "u1")
	if record.State != models.SpinStateTreat || record.Amount != 3 {
		t.Fatalf("resolved = %q/%d, want treat/3", record.State, record.Amount)
	}

	// balance unchanged until the explicit claim
	if candy, _ := profiles.snapshot("u1"); candy != 2 {
		t.Fatalf("candy before claim = %d, want 2", candy)
	}

	profile, err := ws.Claim(context.Background(), "u1", record.SpinID)
	if err != nil {
		t.Fatalf("Claim() error: %v", err)
	}
	if profile.Candy != 5 {
		t.Errorf("candy after claim = %d, want 5", profile.Candy)
	}

	// a second claim must fail
	if _, err := ws.Claim(context.Background(), "u1", record.SpinID); !errors.Is(err, ErrNoSuchSpin) {
		t.Errorf("second Claim() error = %v, want ErrNoSuchSpin", err)
	}
}

func TestCooldown_StartsAtResolution(t *testing.T) {
	profiles := newFakeProfileStore()
	ws := newTestWheel(profiles, newFakeCooldownStore())
	ws.draw = func(*rand.Rand) (string, int) { return models.OutcomeTrick, 0 }

	if _, err := ws.Spin(context.Background(), "u1", false); err != nil {
		t.Fatalf("Spin() error: %v", err)
	}
	waitForResolution(t, ws, "u1")

	_, remaining, err := ws.Status(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Status() error: %v", err)
	}
	if remaining <= 0 {
		t.Errorf("cooldown remaining = %v, want > 0", remaining)
	}

	if _, err := ws.Spin(context.Background(), "u1", false); !errors.Is(err, ErrCooldownActive) {
		t.Errorf("Spin() during cooldown error = %v, want ErrCooldownActive", err)
	}
}
