// Package cli is the interactive leaderboard client.
//
// NewApp prepares the data directory, the local database and the backend
// client. Run restores a saved session (refreshing it when it is about to
// expire) and then reads commands until exit, quit or EOF. Type help for the
// command list.
package cli
