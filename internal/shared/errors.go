package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrTrackNotFound      = fmt.Errorf("track not found")

	// Import errors
	//
	// ErrMalformedInput is reserved for text input the importer cannot use; the importer itself never returns it.
	ErrInvalidURL           = fmt.Errorf("invalid playlist URL")
	ErrUnsupportedURLFormat = fmt.Errorf("unsupported URL format. Supported: Spotify")
	ErrFetchFailed          = fmt.Errorf("failed to fetch playlist")
	ErrMalformedInput       = fmt.Errorf("malformed input")
	ErrNoMatchedTracks      = fmt.Errorf("no matched tracks to save")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
