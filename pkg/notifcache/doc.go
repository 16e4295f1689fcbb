// Package notifcache keeps a locally cached notification list per
// authenticated user, persisted through the same durable store as the
// bearer credential.
//
// The cache is strictly presentational: the server remains the source of
// truth, the cache only smooths over cold starts so the notification panel
// has something to render before the first fetch resolves. Every list is
// namespaced by user ID so notifications cached for one account can never
// leak into another account using the same storage.
//
// An absent cache reads as an empty list, never as an error.
package notifcache
