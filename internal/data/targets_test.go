package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultTable(t *testing.T) {
	tbl := Default()
	if tbl.Count() != 3 {
		t.Fatalf("Count = %d, want 3", tbl.Count())
	}

	tests := []struct {
		kind   string
		radius float64
		points int
		startX float64
	}{
		{"cloud", 50, -1, -200},
		{"airplane", 40, 1, -80},
		{"robot", 35, 3, -60},
	}
	for _, tt := range tests {
		s := tbl.Target(tt.kind)
		if s == nil {
			t.Fatalf("missing %s", tt.kind)
		}
		if s.HitRadius != tt.radius || s.Points != tt.points || s.StartX != tt.startX {
			t.Errorf("%s = %+v", tt.kind, s)
		}
	}

	plane := tbl.Target("airplane")
	if plane.Spawn.First() != 500*time.Millisecond || plane.Spawn.Stagger() != 300*time.Millisecond {
		t.Errorf("airplane spawn = %+v", plane.Spawn)
	}
	if plane.Spawn.BurstMin != 1 || plane.Spawn.BurstMax != 4 {
		t.Errorf("airplane burst = %d..%d", plane.Spawn.BurstMin, plane.Spawn.BurstMax)
	}
	if plane.Pool != (PoolSpec{Size: 10, Ceiling: 20, Floor: 10}) {
		t.Errorf("airplane pool = %+v", plane.Pool)
	}
	robot := tbl.Target("robot")
	if robot.Spawn.First() != 6*time.Second || robot.WaveAmplitude != 40 || robot.WaveFrequency != 4 {
		t.Errorf("robot = %+v", robot)
	}
	if tbl.Target("cloud").RemovalDelay() != 3*time.Second {
		t.Errorf("cloud re-arm = %v", tbl.Target("cloud").RemovalDelay())
	}

	if d := tbl.Effect("impact").Duration(); d != 600*time.Millisecond {
		t.Errorf("impact duration = %v", d)
	}
	if d := tbl.Effect("destruction").Duration(); d != 800*time.Millisecond {
		t.Errorf("destruction duration = %v", d)
	}
	if p := tbl.Effect("impact").Pool; p.Ceiling != 30 || p.Floor != 15 {
		t.Errorf("impact pool = %+v", p)
	}
}

func TestParseRejectsBadTables(t *testing.T) {
	valid := string(defaultTargets)

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"not yaml", "targets: [", "parse"},
		{"missing robot", strings.Replace(valid, "kind: robot", "kind: tank", 1), `missing target kind "robot"`},
		{"missing impact", strings.Replace(valid, "kind: impact", "kind: sparkle", 1), `missing effect kind "impact"`},
		{"inverted speed", strings.Replace(valid, "speed_min: 180", "speed_min: 400", 1), "bad speed range"},
		{"zero radius", strings.Replace(valid, "hit_radius: 35", "hit_radius: 0", 1), "hit_radius"},
		{"band above one", strings.Replace(valid, "band_max: 0.90", "band_max: 1.5", 1), "bad band range"},
		{"empty burst", strings.Replace(valid, "burst_min: 1\n      burst_max: 4", "burst_min: 0\n      burst_max: 4", 1), "bad burst size"},
		{"duplicate kind", strings.Replace(valid, "kind: robot", "kind: airplane", 1), "duplicate target kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTableOverride(t *testing.T) {
	raw := strings.Replace(string(defaultTargets), "points: 3", "points: 5", 1)
	path := filepath.Join(t.TempDir(), "targets.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	if got := tbl.Target("robot").Points; got != 5 {
		t.Errorf("robot points = %d, want 5", got)
	}

	if _, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if tbl, err := LoadOrDefault(""); err != nil || tbl.Target("robot").Points != 3 {
		t.Errorf("empty path should give defaults, got %v", err)
	}
}
