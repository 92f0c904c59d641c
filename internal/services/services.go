package services

import (
	"context"

	"github.com/desertthunder/ytsync/internal/models"
)

// PlaylistService lists the items of a remote playlist.
type PlaylistService interface {
	// GetPlaylistItems returns the playlist's items in playlist order.
	GetPlaylistItems(ctx context.Context, playlistID string) ([]models.RemoteItem, error)

	// Name returns the name of the source (e.g., "YouTube Data API")
	Name() string
}
