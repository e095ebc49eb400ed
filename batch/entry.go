package batch

// Entry is one key/payload pair of a Batch.
type Entry struct {
	Key   string
	Value any
}

// KV builds an Entry. It keeps New calls short:
//
//	b := batch.New(batch.KV("input", 1), batch.KV("target", 2))
func KV(key string, value any) Entry {
	return Entry{Key: key, Value: value}
}
