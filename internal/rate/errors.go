package rate

import "errors"

var (
	// ErrRateLimited reports that the attempt budget is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable reports that the counter backend failed.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
