// Package services defines the collaborators an import talks to over the network.
//
// # Catalog
//
// [Catalog] is the search side of matching. [YouTubeService] implements it against the
// ytmusicapi proxy server, which handles YouTube Music authentication. The auth_file path
// is sent via the X-Auth-File header on each request.
//
// Searches are paced with a [rate.Limiter] and, when enabled, answered from an LRU of
// recent queries so re-running an import does not repeat every request.
//
// # Fetcher
//
// [Fetcher] downloads scraped source pages. [HTTPFetcher] caps redirects and body size
// and treats any non-2xx status as a failure.
//
// # Error Handling
//
// Proxy failures wrap [shared.ErrAPIRequest]. Fetch failures are returned unwrapped so the
// caller can classify them.
package services
