// Package mongostore implements auth.UserDirectory and auth.RefreshStore on
// MongoDB. Call EnsureIndexes once at startup: the unique email index and
// the TTL index on refresh records are part of the store contract.
package mongostore
