// Package services defines the [Catalog] interface and implements it for The Movie Database (TMDB).
//
// # TMDB Implementation
//
// [TMDBService] issues GET requests against the v3 API. A v4 read access token is attached by an
// [oauth2.Transport] built from a static token source; otherwise the v3 key is sent as api_key.
// The language parameter is resolved per request so preference changes take effect immediately.
//
// Requests are never retried and responses are never cached.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrMissingCredentials] : no key or the example placeholder; returned before any request
//   - [shared.ErrInvalidMediaKind] : a title endpoint called with a kind other than movie or tv
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status or undecodable body
//   - [shared.ErrNotFound] : 404, alongside ErrAPIRequest
//
// Non-2xx responses are returned as [*APIError] carrying the TMDB status_message.
//
// # Images
//
// [ImageURL] maps the named sizes small, medium, large and original onto each asset's CDN width.
package services
