// YouTube Data API v3 [PlaylistService] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"golang.org/x/oauth2"
)

const (
	defaultYTBaseURL string = "https://www.googleapis.com/youtube/v3"
	maxResults       int    = 50

	ReasonKeyInvalid       = "keyInvalid"
	ReasonPlaylistNotFound = "playlistNotFound"
)

// APIError is an error object returned in a playlistItems response body.
type APIError struct {
	Status  int
	Reason  string
	Message string
}

func (e *APIError) Error() string {
	switch e.Reason {
	case ReasonKeyInvalid:
		return "Invalid API Key"
	case ReasonPlaylistNotFound:
		return "Could not find YouTube playlist"
	}
	if e.Reason == "" {
		return fmt.Sprintf("youtube API error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("youtube API error (status %d): %s: %s", e.Status, e.Reason, e.Message)
}

// Unwrap maps the error reason onto a shared sentinel.
func (e *APIError) Unwrap() error {
	switch e.Reason {
	case ReasonKeyInvalid:
		return shared.ErrInvalidAPIKey
	case ReasonPlaylistNotFound:
		return shared.ErrPlaylistNotFound
	default:
		return shared.ErrAPIRequest
	}
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title      string `json:"title"`
			Position   int    `json:"position"`
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

// YouTubeService implements [PlaylistService] against the YouTube Data API.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	allPages   bool
	httpClient *http.Client
}

// NewYouTubeService creates a Data API client authenticated with apiKey.
//
// A non-empty accessToken routes requests through an OAuth2 client that sends it as a bearer token.
// With allPages set, nextPageToken is followed until the playlist is exhausted.
func NewYouTubeService(apiKey, accessToken string, allPages bool) *YouTubeService {
	client := http.DefaultClient
	if accessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
		client = oauth2.NewClient(context.Background(), ts)
	}

	return &YouTubeService{
		baseURL:    defaultYTBaseURL,
		apiKey:     apiKey,
		allPages:   allPages,
		httpClient: client,
	}
}

// SetBaseURL points the client at a different API root.
func (y *YouTubeService) SetBaseURL(baseURL string) {
	y.baseURL = baseURL
}

// SetHTTPClient replaces the HTTP client used for requests.
func (y *YouTubeService) SetHTTPClient(client *http.Client) {
	y.httpClient = client
}

// Name returns the service name.
func (y *YouTubeService) Name() string {
	return "YouTube Data API"
}

// GetPlaylistItems fetches the playlist's items.
//
// Calls GET /playlistItems?part=snippet&playlistId={id}&key={key}&maxResults=50.
func (y *YouTubeService) GetPlaylistItems(ctx context.Context, playlistID string) ([]models.RemoteItem, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	var items []models.RemoteItem
	seen := map[string]bool{}
	pageToken := ""

	for {
		page, err := y.fetchPage(ctx, playlistID, pageToken)
		if err != nil {
			return nil, err
		}

		for _, it := range page.Items {
			items = append(items, models.RemoteItem{
				Title:      it.Snippet.Title,
				ResourceID: it.Snippet.ResourceID.VideoID,
				Position:   len(items),
			})
		}

		if !y.allPages || page.NextPageToken == "" || seen[page.NextPageToken] {
			break
		}
		seen[page.NextPageToken] = true
		pageToken = page.NextPageToken
	}

	return items, nil
}

func (y *YouTubeService) fetchPage(ctx context.Context, playlistID, pageToken string) (*playlistItemsResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	if y.apiKey != "" && y.apiKey != shared.PlaceholderAPIKey {
		params.Set("key", y.apiKey)
	}
	params.Set("maxResults", strconv.Itoa(maxResults))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"/playlistItems?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	var page playlistItemsResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecodeResponse, err)
	}

	if page.Error != nil {
		apiErr := &APIError{Status: resp.StatusCode, Message: page.Error.Message}
		if len(page.Error.Errors) > 0 {
			apiErr.Reason = page.Error.Errors[0].Reason
			if apiErr.Message == "" {
				apiErr.Message = page.Error.Errors[0].Message
			}
		}
		return nil, apiErr
	}

	return &page, nil
}
