package unsplash

import "testing"

func TestRandomPhotosURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		count   int
		want    string
	}{
		{
			name:    "default base URL",
			baseURL: "",
			count:   30,
			want:    "https://api.unsplash.com/photos/random/?count=30",
		},
		{
			name:    "custom base URL",
			baseURL: "http://127.0.0.1:8080",
			count:   10,
			want:    "http://127.0.0.1:8080/photos/random/?count=10",
		},
		{
			name:    "zero count falls back to default",
			baseURL: "",
			count:   0,
			want:    "https://api.unsplash.com/photos/random/?count=30",
		},
		{
			name:    "count clamped to maximum",
			baseURL: "",
			count:   100,
			want:    "https://api.unsplash.com/photos/random/?count=30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RandomPhotosURL(tt.baseURL, tt.count)
			if got != tt.want {
				t.Errorf("RandomPhotosURL(%q, %d) = %q, want %q", tt.baseURL, tt.count, got, tt.want)
			}
		})
	}
}

func TestIsValidQuality(t *testing.T) {
	for _, tier := range QualityTiers {
		if !IsValidQuality(tier) {
			t.Errorf("Expected %q to be a valid quality tier", tier)
		}
	}

	for _, invalid := range []string{"", "REGULAR", "medium", "original"} {
		if IsValidQuality(invalid) {
			t.Errorf("Expected %q to be invalid", invalid)
		}
	}
}

func TestPhotoURL(t *testing.T) {
	photo := Photo{
		ID: "abc",
		URLs: map[string]string{
			"regular": "http://x/regular",
			"small":   "",
		},
	}

	if url, ok := photo.URL("regular"); !ok || url != "http://x/regular" {
		t.Errorf("Expected regular URL, got %q ok=%v", url, ok)
	}

	// Present but empty counts as missing
	if _, ok := photo.URL("small"); ok {
		t.Error("Expected empty URL to count as missing")
	}

	if _, ok := photo.URL("raw"); ok {
		t.Error("Expected absent tier to be missing")
	}
}
