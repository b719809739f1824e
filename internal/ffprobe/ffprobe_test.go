package ffprobe

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/carvekit/carve/internal/errors"
)

// loadTestData loads a JSON fixture from the testdata directory.
func loadTestData(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("failed to load test data %s: %v", filename, err)
	}
	return data
}

func TestParseProbeOutput_Valid(t *testing.T) {
	data := loadTestData(t, "video_1080p.json")

	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	if probe.Format.Duration != "300.500000" {
		t.Errorf("Duration = %q, want %q", probe.Format.Duration, "300.500000")
	}

	if len(probe.Streams) != 2 {
		t.Fatalf("len(Streams) = %d, want 2", len(probe.Streams))
	}

	video := probe.Streams[0]
	if video.CodecType != "video" {
		t.Errorf("video.CodecType = %q, want %q", video.CodecType, "video")
	}
	if video.Width != 1920 {
		t.Errorf("video.Width = %d, want 1920", video.Width)
	}
	if video.AvgFrameRate != "30000/1001" {
		t.Errorf("video.AvgFrameRate = %q, want %q", video.AvgFrameRate, "30000/1001")
	}
}

func TestParseProbeOutput_MalformedJSON(t *testing.T) {
	data := []byte(`{"format": {"duration": "300.5"}, "streams": [}`)

	_, err := parseProbeOutput(data)
	if err == nil {
		t.Fatal("parseProbeOutput() expected error for malformed JSON, got nil")
	}
	if !errors.IsProbe(err) {
		t.Errorf("error kind = %v, want probe error", err)
	}
}

func TestExtractMetadata_StreamBitRate(t *testing.T) {
	data := loadTestData(t, "video_1080p.json")
	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	meta, err := extractMetadata(probe, "my video.mp4")
	if err != nil {
		t.Fatalf("extractMetadata() error = %v", err)
	}

	if meta.CodecName != "h264" {
		t.Errorf("CodecName = %q, want %q", meta.CodecName, "h264")
	}
	if meta.Width != 1920 || meta.Height != 1080 {
		t.Errorf("dimensions = %dx%d, want 1920x1080", meta.Width, meta.Height)
	}
	if meta.Resolution() != "1920x1080" {
		t.Errorf("Resolution() = %q, want %q", meta.Resolution(), "1920x1080")
	}
	if meta.DurationSecs != 300.5 {
		t.Errorf("DurationSecs = %v, want 300.5", meta.DurationSecs)
	}
	wantFPS := 30000.0 / 1001.0
	if math.Abs(meta.FrameRate-wantFPS) > 1e-9 {
		t.Errorf("FrameRate = %v, want %v", meta.FrameRate, wantFPS)
	}
	if meta.BitRate != 8_500_000 {
		t.Errorf("BitRate = %d, want 8500000 (from video stream, not container)", meta.BitRate)
	}
	if meta.BitRateEstimated {
		t.Error("BitRateEstimated = true, want false when stream reports bit rate")
	}
}

func TestExtractMetadata_BPSTagFallback(t *testing.T) {
	data := loadTestData(t, "video_mkv_bps_tag.json")
	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	meta, err := extractMetadata(probe, "show.mkv")
	if err != nil {
		t.Fatalf("extractMetadata() error = %v", err)
	}

	if meta.BitRate != 15_000_000 {
		t.Errorf("BitRate = %d, want 15000000 (from BPS tag)", meta.BitRate)
	}
	// avg_frame_rate is 0/0, so r_frame_rate should be used.
	if meta.FrameRate != 25 {
		t.Errorf("FrameRate = %v, want 25 (r_frame_rate fallback)", meta.FrameRate)
	}
}

func TestExtractMetadata_FormatBitRateFallback(t *testing.T) {
	data := loadTestData(t, "video_format_bitrate_only.json")
	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	meta, err := extractMetadata(probe, "capture.mpg")
	if err != nil {
		t.Fatalf("extractMetadata() error = %v", err)
	}

	if meta.BitRate != 4_000_000 {
		t.Errorf("BitRate = %d, want 4000000 (from container)", meta.BitRate)
	}
	if meta.BitRateEstimated {
		t.Error("BitRateEstimated = true, want false when container reports bit rate")
	}
}

func TestExtractMetadata_DefaultBitRate(t *testing.T) {
	data := loadTestData(t, "video_no_bitrate.json")
	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	meta, err := extractMetadata(probe, "clip.webm")
	if err != nil {
		t.Fatalf("extractMetadata() error = %v", err)
	}

	if meta.BitRate != DefaultBitRate {
		t.Errorf("BitRate = %d, want default %d", meta.BitRate, DefaultBitRate)
	}
	if !meta.BitRateEstimated {
		t.Error("BitRateEstimated = false, want true when no bit rate is available")
	}
}

func TestExtractMetadata_NoVideoStream(t *testing.T) {
	data := loadTestData(t, "video_no_video_stream.json")
	probe, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}

	_, err = extractMetadata(probe, "song.mp3")
	if err == nil {
		t.Fatal("extractMetadata() expected error for missing video stream, got nil")
	}
	if !errors.IsProbe(err) {
		t.Errorf("error kind = %v, want probe error", err)
	}
}
