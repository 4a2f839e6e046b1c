package main

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"ASTROBLAST_ADDR", "ASTROBLAST_TEAMS", "ASTROBLAST_TEAM_SIZE", "ASTROBLAST_MAX_ROOMS"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.MaxRoomSize() != 12 {
		t.Errorf("MaxRoomSize = %d, want 12 (2 teams of 6)", cfg.MaxRoomSize())
	}
	if cfg.MaxRooms != 50 {
		t.Errorf("MaxRooms = %d, want 50", cfg.MaxRooms)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ASTROBLAST_TEAMS", "3")
	t.Setenv("ASTROBLAST_TEAM_SIZE", "4")
	t.Setenv("ASTROBLAST_MAX_ROOMS", "10")

	cfg := LoadConfig()
	if cfg.MaxRoomSize() != 12 {
		t.Errorf("MaxRoomSize = %d, want 12 (3 teams of 4)", cfg.MaxRoomSize())
	}
	if cfg.MaxRooms != 10 {
		t.Errorf("MaxRooms = %d, want 10", cfg.MaxRooms)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("ASTROBLAST_TEAMS", "zero")
	t.Setenv("ASTROBLAST_TEAM_SIZE", "-4")

	cfg := LoadConfig()
	if cfg.Teams != 2 || cfg.TeamSize != 6 {
		t.Errorf("teams=%d size=%d, want defaults 2/6 for invalid values", cfg.Teams, cfg.TeamSize)
	}
}
