// Package dispatch implements the email dispatch engine: the suppression
// filter plus send loop that every outbound email flows through.
//
// The engine depends on the suppression service for the must-not-send check
// and on a mail.Provider for delivery. It never knows how a transport
// session is authenticated, only that Session() yields a usable handle or
// fails.
package dispatch
