package services

import "time"

const (
	KeyPlayerSession     = "PL:%s" // per-connection session, socket id scoped
	KeyGameRoster        = "GM:%s" // hash of socket id -> user id per game
	KeyConnectionsServed = "stats:connections"
	KeyHealthProbe       = "health:probe"

	keyConnProbe = "connection:probe"

	TTLPlayerSession = time.Hour
	TTLDefault       = 24 * time.Hour
)
