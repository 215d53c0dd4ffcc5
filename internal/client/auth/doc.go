// Package auth owns the session lifecycle: sign-up, sign-in (password or
// anonymous), explicit refresh, sign-out and restore from local storage.
//
// The Manager is the only writer of the gateway's bearer token. Every
// successful exchange replaces the held session wholesale, installs its
// access token in the gateway and persists it through a SessionStore.
// Refresh never happens implicitly; callers check NeedsRefresh and call
// Refresh themselves.
package auth
