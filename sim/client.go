package sim

import "time"

// Default client timings.
const (
	DefaultHandleTime  = 5 * time.Minute
	DefaultAbandonTime = 30 * time.Second
)

// Client is an immutable arrival descriptor. One Request is materialized per
// Client when the simulation is enabled.
type Client struct {
	RequiredAttributes []Attribute
	HandleTime         time.Duration
	CleanUpTime        time.Duration
	AbandonTime        time.Duration
}

// NewClient returns a Client with the default timings: five minutes of
// handling, thirty seconds until abandon, no clean-up.
func NewClient() Client {
	return Client{
		HandleTime:  DefaultHandleTime,
		AbandonTime: DefaultAbandonTime,
	}
}
