package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("PENDING_BLOCKS_SLOT", "true")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.DisplayTimezone != "UTC" || !c.PendingBlocksSlot {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Addr() != ":8080" {
		t.Fatalf("Addr = %q", c.Addr())
	}
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus_Mons")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
