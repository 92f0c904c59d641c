package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig       = fmt.Errorf("configuration not found")
	ErrInvalidConfig       = fmt.Errorf("invalid configuration")
	ErrConfigDirUnwritable = fmt.Errorf("could not write to config directory")
	ErrMissingCredentials  = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrDecodeResponse     = fmt.Errorf("could not decode JSON response, ensure config.json is setup properly")
	ErrInvalidAPIKey      = fmt.Errorf("invalid API key")
	ErrPlaylistNotFound   = fmt.Errorf("could not find YouTube playlist")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Library errors
	ErrDestinationInvalid = fmt.Errorf("destination is not a directory")
	ErrFileNotFound       = fmt.Errorf("file not found")

	// External tool errors
	ErrDownloadFailed = fmt.Errorf("download failed")
	ErrTaggerNotFound = fmt.Errorf("tagging tool not found")
	ErrTaggingFailed  = fmt.Errorf("failed to tag files")

	// History errors
	ErrRunNotFound = fmt.Errorf("run not found")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
