// Package services defines the [PlaylistService] interface for listing remote playlists and implements it
// for the YouTube Data API and for keyless innertube scraping.
//
// # YouTube Data API
//
// [YouTubeService] calls the v3 playlistItems endpoint with an API key, or with an OAuth bearer token
// through an [oauth2.StaticTokenSource] client when one is configured. Only the first page of 50 items
// is requested unless page following is enabled.
//
// The response body is decoded whatever the HTTP status. An error object in the body is turned into an
// [APIError] whose reason maps onto the shared sentinels:
//   - keyInvalid : [shared.ErrInvalidAPIKey]
//   - playlistNotFound : [shared.ErrPlaylistNotFound]
//   - anything else : [shared.ErrAPIRequest]
//
// A body that is not JSON yields [shared.ErrDecodeResponse].
//
// # Innertube
//
// [InnertubeService] uses github.com/ytget/ytdlp/v2 to read the playlist the way the web client does,
// so no credentials are needed.
package services
