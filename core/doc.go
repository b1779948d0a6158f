// Package core is the HTTP plumbing shared by every chatjpt resource client.
//
// A [Transport] turns a [Request] into an HTTP call and decodes the result:
//
//	resp, err := core.Send[chatjpt.Model](ctx, transport, core.Request{
//	    Operation: "models.retrieve",
//	    Method:    http.MethodGet,
//	    Path:      "/models/gpt-4",
//	})
//
// Bodies are sent as JSON unless they implement [Multipart], in which case
// they are encoded as multipart/form-data with one part per field and one
// file part per [File].
//
// # Call shapes
//
//   - [Send] blocks and decodes a JSON body.
//   - [SendAsync] runs Send in a goroutine and returns a [Future].
//   - [SendStream] returns a pull-based [Stream] over server-sent events.
//   - [Transport.SendRaw] returns the body unparsed.
//   - [Transport.Download] writes a binary body to a file.
//
// # Errors
//
// Every failure is one of four types:
//
//   - [InvalidRequestError]: local validation failed; nothing was sent.
//   - [APIError]: the API answered with a non-2xx status.
//   - [TransportError]: the call failed before or while reading a response.
//   - [DecodeError]: the body did not match the expected shape.
//
// Use errors.Is with the sentinels ([ErrUnauthorized], [ErrRateLimited],
// [ErrTransport], ...) to classify them.
//
// # Telemetry
//
// A [TelemetryHook] receives a start and an end event for every call.
// Events carry no keys, prompts or outputs.
package core
