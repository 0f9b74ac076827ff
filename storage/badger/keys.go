package badger

// Key prefixes for different data types
const (
	itemRecordPrefix = "itmrec"
)

// makeItemKey generates a key for an item record by id.
func makeItemKey(id string) []byte {
	return []byte(itemRecordPrefix + ":" + id)
}

// itemKeyPrefix returns the prefix shared by all item record keys.
func itemKeyPrefix() []byte {
	return []byte(itemRecordPrefix + ":")
}
