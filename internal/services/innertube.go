package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/ytget/ytdlp/v2"
)

// ListFunc lists up to limit items of a playlist; a limit of 0 lists all of them.
type ListFunc func(ctx context.Context, playlistID string, limit int) ([]models.RemoteItem, error)

// InnertubeService implements [PlaylistService] without an API key by reading the playlist through
// the web client's innertube endpoints.
type InnertubeService struct {
	list  ListFunc
	limit int
}

// NewInnertubeService creates a keyless lister backed by ytdlp. A limit of 0 lists the whole playlist.
func NewInnertubeService(limit int) *InnertubeService {
	return NewInnertubeServiceWithLister(ytdlpLister, limit)
}

// NewInnertubeServiceWithLister creates a keyless lister backed by list.
func NewInnertubeServiceWithLister(list ListFunc, limit int) *InnertubeService {
	return &InnertubeService{list: list, limit: limit}
}

func ytdlpLister(ctx context.Context, playlistID string, limit int) ([]models.RemoteItem, error) {
	entries, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]models.RemoteItem, 0, len(entries))
	for _, it := range entries {
		items = append(items, models.RemoteItem{Title: it.Title, ResourceID: it.VideoID})
	}
	return items, nil
}

// Name returns the service name.
func (s *InnertubeService) Name() string {
	return "YouTube (innertube)"
}

// GetPlaylistItems lists the playlist's items in playlist order.
func (s *InnertubeService) GetPlaylistItems(ctx context.Context, playlistID string) ([]models.RemoteItem, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	items, err := s.list(ctx, playlistID, s.limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get playlist items: %v", shared.ErrAPIRequest, err)
	}

	for i := range items {
		items[i].Position = i
	}
	return items, nil
}
