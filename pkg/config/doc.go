// Package config loads typed configuration from environment variables using
// github.com/caarlos0/env struct tags, after reading an optional .env file
// with github.com/joho/godotenv.
//
// Load caches one value per config type for the life of the process. Parse
// reads fresh values and accepts options such as a variable prefix or an
// explicit environment map, which keeps tests away from os.Setenv.
package config
