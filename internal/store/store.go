// Package store holds what the Store backends share.
package store

import "errors"

// ErrClosed is wrapped in a *domain.StoreError when a closed store is used.
var ErrClosed = errors.New("store is closed")
