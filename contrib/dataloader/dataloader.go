// Package dataloader provides generic helpers for batch loading: a batch
// query returns the children of many parents at once, and the helpers
// distribute them back to the parents that asked for them.
//
//	posts := loadPostsOfAuthors(ctx, authorIDs)
//	grouped := dataloader.GroupByKey(posts, func(p *Post) int { return p.AuthorID })
//	ordered := dataloader.OrderGroupsByKeys(authorIDs, grouped)
//	// ordered[i] holds the posts of authorIDs[i]
package dataloader

// KeyFunc extracts a key from an entity.
type KeyFunc[K comparable, V any] func(V) K

// GroupByKey groups entities by a key function. Within a group, entities
// keep their order in values.
func GroupByKey[K comparable, V any](values []V, keyFn KeyFunc[K, V]) map[K][]V {
	result := make(map[K][]V)
	for _, v := range values {
		key := keyFn(v)
		result[key] = append(result[key], v)
	}
	return result
}

// OrderGroupsByKeys reorders grouped entities to match the order of requested
// keys. Keys without a group get a nil slice; a key requested twice gets the
// same group twice.
func OrderGroupsByKeys[K comparable, V any](keys []K, groups map[K][]V) [][]V {
	result := make([][]V, len(keys))
	for i, key := range keys {
		result[i] = groups[key]
	}
	return result
}
