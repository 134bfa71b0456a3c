package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
)

// killRegular kills one regular enemy with a player bullet.
func killRegular(e *Engine, now time.Time) {
	en := addDrifter(e, 100, 100, 1)
	aimAt(e, en, 1)
	e.resolveCollisions(now)
}

// clearBossWave kills every live boss.
func clearBossWave(e *Engine, now time.Time) {
	for _, b := range e.liveBosses() {
		b.Health = 1
		aimAt(e, b, 1)
	}
	e.resolveCollisions(now)
}

func TestQuotaTriggersOneBossWave(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	if e.round.Needed != 25 {
		t.Fatalf("Needed = %d, expected 25", e.round.Needed)
	}

	spawned := 0
	for i := 0; i < 24; i++ {
		e.events = nil
		killRegular(e, clock.tick())
		spawned += countEvents(e.events, EventBossSpawned)
	}
	if spawned != 0 || e.Phase() != PhaseInRound {
		t.Fatalf("after 24 kills: %d bosses, phase %v", spawned, e.Phase())
	}

	e.events = nil
	killRegular(e, clock.tick())
	spawned += countEvents(e.events, EventBossSpawned)
	if spawned != 1 {
		t.Errorf("boss spawns = %d, expected 1", spawned)
	}
	if e.Phase() != PhaseBossFight || !e.round.BossActive {
		t.Errorf("Phase() = %v, BossActive = %v, expected boss fight", e.Phase(), e.round.BossActive)
	}

	// Kills during the fight never start another wave.
	for i := 0; i < 10; i++ {
		e.events = nil
		killRegular(e, clock.tick())
		spawned += countEvents(e.events, EventBossSpawned)
	}
	if spawned != 1 || len(e.liveBosses()) != 1 {
		t.Errorf("boss spawns = %d, live = %d, expected 1 and 1", spawned, len(e.liveBosses()))
	}
}

func TestNoRegularSpawnsDuringBossFight(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.spawnRate = time.Millisecond
	e.phase = PhaseBossPending
	e.spawnBosses(clock.now)

	for i := 0; i < 120; i++ {
		e.spawnRegular(clock.tick())
	}
	for _, en := range e.enemies {
		if !en.IsBoss() {
			t.Fatalf("regular enemy %q spawned during the boss fight", en.Name)
		}
	}
}

func TestMultiBossDefeatFiresOnce(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.round.Round = 4
	e.phase = PhaseBossPending
	e.spawnBosses(clock.tick())

	bosses := e.liveBosses()
	if len(bosses) != 2 {
		t.Fatalf("live bosses = %d, expected 2 in round 4", len(bosses))
	}
	if bosses[0].Health != 228 {
		t.Errorf("boss health = %v, expected 228", bosses[0].Health)
	}
	if bosses[0].Boss.ShootCooldown+200*time.Millisecond != bosses[1].Boss.ShootCooldown {
		t.Error("second boss should shoot 200ms slower")
	}

	// First boss down: the wave continues.
	bosses[0].Health = 1
	aimAt(e, bosses[0], 1)
	e.events = nil
	e.resolveCollisions(clock.tick())
	if n := countEvents(e.events, EventBossDefeated); n != 0 {
		t.Fatalf("boss defeated fired with a boss still alive")
	}
	if e.Phase() != PhaseBossFight {
		t.Fatalf("Phase() = %v, expected boss fight", e.Phase())
	}
	if e.round.CurrentBoss != bosses[1].ID {
		t.Errorf("CurrentBoss = %d, expected %d", e.round.CurrentBoss, bosses[1].ID)
	}

	score := e.score
	bosses[1].Health = 1
	aimAt(e, bosses[1], 1)
	aimAt(e, bosses[1], 1)
	e.events = nil
	e.resolveCollisions(clock.tick())
	if n := countEvents(e.events, EventBossDefeated); n != 1 {
		t.Fatalf("boss defeated events = %d, expected 1", n)
	}
	if e.Phase() != PhaseRoundCleared {
		t.Errorf("Phase() = %v, expected round cleared", e.Phase())
	}
	if got, expected := e.score-score, bosses[1].ScoreValue+500*4; got != expected {
		t.Errorf("score gain = %d, expected %d", got, expected)
	}
	if e.sched.pending() != 1 {
		t.Errorf("pending transitions = %d, expected 1", e.sched.pending())
	}
}

func TestRoundProgression(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.round.Needed = 1
	killRegular(e, clock.tick())
	clearBossWave(e, clock.tick())

	for i := 0; i < 200 && e.Phase() == PhaseRoundCleared; i++ {
		e.Step(clock.tick(), Input{})
	}
	if e.Phase() != PhaseUpgrade {
		t.Fatalf("Phase() = %v, expected upgrade", e.Phase())
	}
	offer := e.Offer()
	if len(offer) != 3 {
		t.Fatalf("Offer() = %v, expected 3 kinds", offer)
	}
	seen := map[UpgradeKind]bool{}
	for _, k := range offer {
		if seen[k] {
			t.Errorf("Offer() = %v has duplicates", offer)
		}
		seen[k] = true
	}

	// The world is frozen on the upgrade screen.
	frames := e.frames
	before := e.Snapshot().Hash()
	e.Step(clock.tick(), Input{Fire: true, Left: true})
	if e.Snapshot().Hash() != before {
		t.Error("world changed on the upgrade screen")
	}
	if e.frames != frames+1 {
		t.Errorf("frames = %d, expected %d", e.frames, frames+1)
	}

	var missing UpgradeKind
	for _, k := range UpgradeKinds {
		if !seen[k] {
			missing = k
			break
		}
	}
	if e.SelectUpgrade(missing) {
		t.Errorf("SelectUpgrade(%v) accepted a kind that was not offered", missing)
	}
	if !e.SelectUpgrade(offer[0]) {
		t.Fatalf("SelectUpgrade(%v) rejected an offered kind", offer[0])
	}
	if e.SelectUpgrade(offer[1]) {
		t.Error("second SelectUpgrade() in one round should be rejected")
	}
	if e.upgrades[offer[0]] != 1 {
		t.Errorf("level of %v = %d, expected 1", offer[0], e.upgrades[offer[0]])
	}

	for i := 0; i < 200 && e.Phase() == PhaseUpgrade; i++ {
		e.Step(clock.tick(), Input{})
	}
	if e.Phase() != PhaseInRound {
		t.Fatalf("Phase() = %v, expected next round", e.Phase())
	}
	if e.round.Round != 2 || e.round.Needed != 57 || e.round.Killed != 0 {
		t.Errorf("round = %+v, expected round 2 needing 57", e.round)
	}
	if e.spawnRate != 1<<30*time.Millisecond-300*time.Millisecond {
		t.Errorf("spawnRate = %v", e.spawnRate)
	}
}

func TestEmptyOfferStartsNextRound(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	for _, k := range UpgradeKinds {
		e.upgrades[k] = e.cfg.UpgradeCap(string(k))
	}
	e.round.Needed = 1
	killRegular(e, clock.tick())
	clearBossWave(e, clock.tick())

	for i := 0; i < 200 && e.Phase() == PhaseRoundCleared; i++ {
		e.Step(clock.tick(), Input{})
	}
	if e.Phase() != PhaseInRound || e.round.Round != 2 {
		t.Errorf("Phase() = %v round %d, expected round 2 without an upgrade screen", e.Phase(), e.round.Round)
	}
}

func TestDeferredTransitionDroppedAfterRestart(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.round.Needed = 1
	killRegular(e, clock.tick())
	clearBossWave(e, clock.tick())
	if e.Phase() != PhaseRoundCleared {
		t.Fatalf("Phase() = %v, expected round cleared", e.Phase())
	}

	e.Step(clock.tick(), Input{Menu: true})
	if err := e.StartGame("space", clock.now); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 300; i++ {
		e.Step(clock.tick(), Input{})
	}
	if e.Phase() != PhaseInRound || e.round.Round != 1 {
		t.Errorf("Phase() = %v round %d, expected the stale transition to be dropped", e.Phase(), e.round.Round)
	}
}

func TestDeferredGuardChecksPhase(t *testing.T) {
	e, clock := startEngine(t, quietConfig())
	e.sched.schedule(deferred{Due: clock.now, RunID: e.runID, Phase: PhaseRoundCleared, Action: actionShowUpgrades})

	e.Step(clock.tick(), Input{})
	if e.Phase() != PhaseInRound {
		t.Errorf("Phase() = %v, a transition for another phase must not fire", e.Phase())
	}
	if e.sched.pending() != 0 {
		t.Errorf("pending = %d, expected the stale entry to be dropped", e.sched.pending())
	}
}

func TestLevelUpFromScore(t *testing.T) {
	e, _ := startEngine(t, config.Default())
	e.addScore(499)
	if e.level != 1 {
		t.Fatalf("level = %d, expected 1", e.level)
	}
	e.addScore(1)
	if e.level != 2 {
		t.Fatalf("level = %d, expected 2", e.level)
	}
	if e.spawnRate != 1850*time.Millisecond {
		t.Errorf("spawnRate = %v, expected 1.85s", e.spawnRate)
	}
}
