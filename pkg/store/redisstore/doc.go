// Package redisstore keeps refresh records and OAuth state values in Redis.
//
// Both stores rely on key expiry for cleanup and on GETDEL for single use,
// so a value can be taken by one caller only. User accounts are not kept
// here; pair these stores with a pgstore, mongostore or memstore directory.
package redisstore
