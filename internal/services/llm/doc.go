// Package llm talks to an OpenAI-compatible chat completion endpoint in JSON
// mode. The dub pipeline uses Client.Translate for each recognised line and
// the doctor command uses Client.HealthCheck.
//
// Requests that come back empty, time out, or fail with 408, 429 or 5xx are
// retried with doubling delays (1s up to 10s, five attempts by default); a
// Retry-After header overrides the computed delay. Replies are decoded
// leniently since providers differ: code fences, surrounding prose, tool-call
// arguments, streaming deltas and legacy text completions are all accepted.
package llm
