package hwaccel

import "testing"

const sampleListing = `Encoders:
 V..... = Video
 A..... = Audio
 S..... = Subtitle
 .F.... = Frame-level multithreading
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V....D libx264rgb           libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 RGB (codec h264)
 V....D h264_videotoolbox    VideoToolbox H.264 Encoder (codec h264)
 V....D hevc_videotoolbox    VideoToolbox H.265 Encoder (codec hevc)
 A....D aac                  AAC (Advanced Audio Coding)
`

const softwareOnlyListing = `Encoders:
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC / MPEG-4 part 10 (codec h264)
 V....D libx265              libx265 H.265 / HEVC (codec hevc)
 A....D aac                  AAC (Advanced Audio Coding)
`

func TestListingHasEncoder(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		encoder string
		want    bool
	}{
		{"videotoolbox present", sampleListing, VideoToolboxEncoder, true},
		{"videotoolbox absent", softwareOnlyListing, VideoToolboxEncoder, false},
		{"software encoder present", softwareOnlyListing, "libx264", true},
		{"empty listing", "", VideoToolboxEncoder, false},
		{"name in description does not match", " V....D libx999              wraps h264_videotoolbox internally\n", VideoToolboxEncoder, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listingHasEncoder(tt.listing, tt.encoder); got != tt.want {
				t.Errorf("listingHasEncoder(%q) = %v, want %v", tt.encoder, got, tt.want)
			}
		})
	}
}
