// Package dedup finds duplicate club records and collapses them.
//
// The grouper buckets entities by composite key (loose name plus loose
// location) and separately reports names shared across locations for manual
// review. The executor applies canonical/variant merge rules and composite
// duplicate groups through the entity.Repository port. Every delete refused
// because of dependent records is logged and skipped; nothing is ever
// force-deleted.
package dedup
