// Package param breaks down parameterized header values such as
// Content-Disposition and Content-Type into a primary value and its
// attributes. The decoder itself never needs this; it is used when presenting
// parts and when a boundary has to be taken from a request's Content-Type.
package param
