// Package config fills env-tagged structs from the process environment.
//
// A .env file in the working directory is read once, on the first Load,
// without overriding variables that are already set. Parsed values are
// cached per type, so every Load of the same struct type returns the same
// values. Failed parses are not cached.
//
//	var cfg jwt.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Parse reads a given environment map and skips both the .env file and the
// cache, which keeps tests independent of the process environment.
package config
