// Package producer supplies services that originate frames: each producer
// maps timeline positions to frames carrying deferred rendering steps, so
// nothing is drawn until a consumer asks.
package producer
