// Package throttle provides an [http.RoundTripper] that paces requests to
// the BooXtream service using a token bucket from [golang.org/x/time/rate].
//
// # Usage
//
//	rt, err := throttle.New(
//		throttle.Config{RPS: 2, Burst: 1},
//		func() *slog.Logger { return slog.Default() },
//		http.DefaultTransport,
//	)
//	httpClient := &http.Client{Transport: rt}
//
// Requests over the limit block until a token is available or the request
// context ends, in which case the reserved token is returned to the bucket.
package throttle
