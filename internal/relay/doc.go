// Package relay sends switch commands to the power relay over its REST API.
//
// The device exposes a digest-authenticated endpoint that applies a batch of
// transient outlet states in one request. The client wraps that endpoint:
// callers hand it channel/state pairs and get back a typed error describing
// either a transport failure (the device never answered) or a device
// rejection (the device answered with a non-success status).
package relay
