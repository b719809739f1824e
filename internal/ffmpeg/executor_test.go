package ffmpeg

import (
	"math"
	"testing"
)

func TestParseProgressLine(t *testing.T) {
	line := "frame=  927 fps= 31 q=28.0 size=    4864KiB time=00:00:30.92 bitrate=1288.3kbits/s speed=1.03x"

	p := parseProgressLine(line, 60.0)
	if p == nil {
		t.Fatal("parseProgressLine() = nil")
	}

	if math.Abs(p.ElapsedSecs-30.92) > 1e-9 {
		t.Errorf("ElapsedSecs = %v, want 30.92", p.ElapsedSecs)
	}
	if p.FPS != 31 {
		t.Errorf("FPS = %v, want 31", p.FPS)
	}
	if p.Bitrate != "1288.3kbits/s" {
		t.Errorf("Bitrate = %q, want %q", p.Bitrate, "1288.3kbits/s")
	}
	if math.Abs(float64(p.Speed)-1.03) > 1e-3 {
		t.Errorf("Speed = %v, want 1.03", p.Speed)
	}

	wantPercent := float32(30.92 / 60.0 * 100)
	if math.Abs(float64(p.Percent-wantPercent)) > 1e-3 {
		t.Errorf("Percent = %v, want %v", p.Percent, wantPercent)
	}
	if p.ETA <= 0 {
		t.Errorf("ETA = %v, want positive", p.ETA)
	}
}

func TestParseProgressLine_PercentClamped(t *testing.T) {
	// Elapsed past the segment duration clamps at 100%.
	line := "frame= 3000 fps= 60 q=28.0 size=  10240KiB time=00:02:30.00 bitrate=1000.0kbits/s speed=2.0x"

	p := parseProgressLine(line, 60.0)
	if p == nil {
		t.Fatal("parseProgressLine() = nil")
	}
	if p.Percent != 100 {
		t.Errorf("Percent = %v, want 100", p.Percent)
	}
}

func TestParseProgressLine_NoDuration(t *testing.T) {
	line := "frame=  100 fps= 25 q=28.0 size=     512KiB time=00:00:04.00 bitrate= 800.0kbits/s speed=1.0x"

	p := parseProgressLine(line, 0)
	if p == nil {
		t.Fatal("parseProgressLine() = nil")
	}
	if p.Percent != 0 {
		t.Errorf("Percent = %v, want 0 when duration unknown", p.Percent)
	}
	if p.ETA != 0 {
		t.Errorf("ETA = %v, want 0 when duration unknown", p.ETA)
	}
}

func TestLastStderrLines(t *testing.T) {
	stderr := "line1\nline2\r\n\nline3\nline4\nline5\nline6\n"

	got := lastStderrLines(stderr, 5)
	want := "line2\nline3\nline4\nline5\nline6"
	if got != want {
		t.Errorf("lastStderrLines() = %q, want %q", got, want)
	}

	if got := lastStderrLines("only one", 5); got != "only one" {
		t.Errorf("lastStderrLines(short) = %q", got)
	}
	if got := lastStderrLines("", 5); got != "" {
		t.Errorf("lastStderrLines(empty) = %q", got)
	}
}
