package hud

import (
	"testing"
	"time"
)

const testDelay = 30 * time.Millisecond

func TestStartsVisibleWithoutCountdown(t *testing.T) {
	c := NewController(testDelay)
	defer c.Stop()

	if !c.Visible() {
		t.Fatal("controller should start visible")
	}

	// No activity recorded yet, so no countdown should be armed.
	time.Sleep(3 * testDelay)
	if !c.Visible() {
		t.Fatal("controls hid without any activity arming the countdown")
	}
}

func TestActivityArmsHideCountdown(t *testing.T) {
	c := NewController(testDelay)
	defer c.Stop()

	c.Activity()
	time.Sleep(3 * testDelay)
	if c.Visible() {
		t.Fatal("controls still visible after the hide delay elapsed")
	}
}

func TestActivityResetsCountdown(t *testing.T) {
	c := NewController(testDelay)
	defer c.Stop()

	c.Activity()
	time.Sleep(testDelay / 2)
	c.Activity()
	time.Sleep(2 * testDelay / 3)

	// The first countdown would have fired by now; the second re-arm
	// must have replaced it.
	if !c.Visible() {
		t.Fatal("first countdown fired even though activity re-armed it")
	}

	time.Sleep(testDelay)
	if c.Visible() {
		t.Fatal("controls never hid after the re-armed countdown")
	}
}

func TestActivityRestoresVisibility(t *testing.T) {
	c := NewController(testDelay)
	defer c.Stop()

	c.Activity()
	time.Sleep(3 * testDelay)
	if c.Visible() {
		t.Fatal("controls should be hidden before the restoring activity")
	}

	c.Activity()
	if !c.Visible() {
		t.Fatal("activity should restore visibility immediately")
	}
}

func TestOpenPanelSuppressesHide(t *testing.T) {
	c := NewController(testDelay)
	defer c.Stop()

	c.Activity()
	c.OpenPanel()
	time.Sleep(3 * testDelay)
	if !c.Visible() {
		t.Fatal("controls hid while a panel was open")
	}

	// Activity with a panel open must not arm a countdown either.
	c.Activity()
	time.Sleep(3 * testDelay)
	if !c.Visible() {
		t.Fatal("activity armed a countdown while a panel was open")
	}
}

func TestClosePanelRearmsCountdown(t *testing.T) {
	c := NewController(testDelay)
	defer c.Stop()

	c.OpenPanel()
	c.ClosePanel()
	time.Sleep(3 * testDelay)
	if c.Visible() {
		t.Fatal("countdown did not fire after the last panel closed")
	}
}

func TestNestedPanels(t *testing.T) {
	c := NewController(testDelay)
	defer c.Stop()

	c.OpenPanel()
	c.OpenPanel()
	c.ClosePanel()
	time.Sleep(3 * testDelay)
	if !c.Visible() {
		t.Fatal("controls hid while an inner panel was still open")
	}

	c.ClosePanel()
	time.Sleep(3 * testDelay)
	if c.Visible() {
		t.Fatal("countdown did not fire after every panel closed")
	}
}
