// Package config loads environment-driven configuration structs.
//
// Structs declare their variables with caarlos0/env tags. A .env file in the
// working directory is loaded once through godotenv before the first parse;
// real environment variables win over it.
//
//	var cfg mongo.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Load parses each struct type once per process and hands out copies of the
// cached value afterwards. Parse skips the cache.
package config
