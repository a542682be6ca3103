package metrics

import "time"

// Gate decision outcomes.
const (
	OutcomeBypass          = "bypass"
	OutcomeForward         = "forward"
	OutcomeRedirectMissing = "redirect_missing"
	OutcomeRedirectInvalid = "redirect_invalid"
	OutcomeError           = "error"
)

// Key set fetch results.
const (
	FetchOK             = "ok"
	FetchTransportError = "fetch_error"
	FetchParseError     = "parse_error"
)

func GateDecision(outcome string) { gateDecisions.WithLabelValues(outcome).Inc() }

func KeySetFetch(result string) { keySetFetches.WithLabelValues(result).Inc() }

func KeySetCacheLookup(hit bool) {
	if hit {
		keySetCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	keySetCacheLookups.WithLabelValues("miss").Inc()
}

func ObserveVerify(d time.Duration) { verifySeconds.Observe(d.Seconds()) }
