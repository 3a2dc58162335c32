// Package services implements the driving port interfaces.
// Services contain the gateway logic and orchestrate calls to driven
// ports (stores, vector index, queue, connectors).
//
// Every error returned by a service wraps one domain error kind so the
// transports can map it without inspecting messages.
package services
