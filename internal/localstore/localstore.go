package localstore

import "errors"

// Keys the sync layer persists. storeId/tableId restore a table session
// after a reload; cart_items carries the serialized cart; auth_token is the
// bearer credential the network client attaches when present.
const (
	KeyStoreID   = "storeId"
	KeyTableID   = "tableId"
	KeyCartItems = "cart_items"
	KeyAuthToken = "auth_token"
)

var ErrNotFound = errors.New("localstore: key not found")

// Store is the durable local storage contract. Writers run on whatever
// goroutine triggered the mutation, so implementations must be safe for
// concurrent use; last write wins.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
