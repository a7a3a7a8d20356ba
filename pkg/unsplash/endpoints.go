package unsplash

import (
	"fmt"
	"net/url"
)

const (
	// BaseURL is the base URL for the Unsplash API
	BaseURL = "https://api.unsplash.com"

	// RandomPhotosEndpoint returns a batch of random photo records
	RandomPhotosEndpoint = "/photos/random/"

	// DefaultAcceptVersion is the API version sent with every request
	DefaultAcceptVersion = "v1"

	// DefaultPageSize is the number of photos requested per call
	DefaultPageSize = 30

	// MaxPageSize is the largest count the random endpoint accepts
	MaxPageSize = 30

	// DefaultTotalBudget is the number of photos fetched per session
	DefaultTotalBudget = 1500

	// QualityRegular is the default quality tier for downloads
	QualityRegular = "regular"
)

// QualityTiers lists the URL variants the API provides per photo
var QualityTiers = []string{"raw", "full", "regular", "small", "thumb"}

// RandomPhotosURL constructs the URL for fetching a page of random photos
func RandomPhotosURL(baseURL string, count int) string {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if count <= 0 {
		count = DefaultPageSize
	} else if count > MaxPageSize {
		count = MaxPageSize
	}

	params := url.Values{}
	params.Set("count", fmt.Sprintf("%d", count))

	return fmt.Sprintf("%s%s?%s", baseURL, RandomPhotosEndpoint, params.Encode())
}

// IsValidQuality checks whether quality names a known URL tier
func IsValidQuality(quality string) bool {
	for _, tier := range QualityTiers {
		if quality == tier {
			return true
		}
	}
	return false
}
