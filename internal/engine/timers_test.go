package engine

import (
	"testing"
	"time"

	"github.com/vovakirdan/star-strike/internal/config"
)

func TestPowerUpTimers(t *testing.T) {
	cfg := config.Default()
	timers := NewPowerUpTimers(&cfg)

	timers.Activate(PowerUpShield, epoch)
	if !timers.Active(PowerUpShield) {
		t.Fatal("shield should be active")
	}
	if got := timers.State(PowerUpShield).Remaining(epoch.Add(5 * time.Second)); got != 10*time.Second {
		t.Errorf("Remaining() = %v, expected 10s", got)
	}

	// Expiry is strict: still active exactly at the deadline.
	if expired := timers.Expire(epoch.Add(15 * time.Second)); len(expired) != 0 {
		t.Errorf("Expire() at deadline = %v, expected none", expired)
	}
	expired := timers.Expire(epoch.Add(15*time.Second + time.Millisecond))
	if len(expired) != 1 || expired[0] != PowerUpShield {
		t.Errorf("Expire() = %v, expected [shield]", expired)
	}
	if timers.Active(PowerUpShield) {
		t.Error("shield should be inactive after expiry")
	}
}

func TestPowerUpRefresh(t *testing.T) {
	cfg := config.Default()
	timers := NewPowerUpTimers(&cfg)

	timers.Activate(PowerUpRapidFire, epoch)
	timers.Activate(PowerUpRapidFire, epoch.Add(8*time.Second))
	if expired := timers.Expire(epoch.Add(12 * time.Second)); len(expired) != 0 {
		t.Errorf("Expire() = %v, a second pickup should refresh the timer", expired)
	}
}

func TestChargeNeverExceedsMax(t *testing.T) {
	c := Charge{Max: 10, Cooldown: 3 * time.Second}
	readied := 0
	for i := 0; i < 50; i++ {
		if c.Add(0.5) {
			readied++
		}
		if c.Value > c.Max {
			t.Fatalf("charge %v exceeds max %v", c.Value, c.Max)
		}
	}
	if readied != 1 {
		t.Errorf("Add() reported ready %d times, expected 1", readied)
	}
}

func TestChargeCooldown(t *testing.T) {
	c := Charge{Max: 10, Cooldown: 3 * time.Second}
	if c.Fire(epoch) {
		t.Fatal("Fire() with an empty meter should fail")
	}

	c.Add(10)
	if !c.Fire(epoch) {
		t.Fatal("Fire() with a full meter should succeed")
	}
	if c.Value != 0 || c.Ready {
		t.Errorf("charge after Fire() = %+v, expected reset", c)
	}

	c.Add(10)
	if c.Fire(epoch.Add(2 * time.Second)) {
		t.Error("Fire() inside the cooldown should fail")
	}
	if !c.Ready {
		t.Error("a refused Fire() must keep the charge")
	}
	if !c.Fire(epoch.Add(3 * time.Second)) {
		t.Error("Fire() once the cooldown has passed should succeed")
	}
}

func TestSchedulerDue(t *testing.T) {
	var s scheduler
	s.schedule(deferred{Due: epoch.Add(2 * time.Second), Action: actionShowUpgrades})
	s.schedule(deferred{Due: epoch.Add(time.Second), Action: actionNextRound})

	if got := s.due(epoch); len(got) != 0 {
		t.Errorf("due() = %v, expected none", got)
	}
	got := s.due(epoch.Add(time.Second))
	if len(got) != 1 || got[0].Action != actionNextRound {
		t.Errorf("due() = %v, expected [next-round]", got)
	}
	if s.pending() != 1 {
		t.Errorf("pending() = %d, expected 1", s.pending())
	}
	s.reset()
	if s.pending() != 0 {
		t.Errorf("pending() after reset = %d, expected 0", s.pending())
	}
}
