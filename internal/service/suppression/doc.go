// Package suppression implements the suppression list service.
//
// This is the single source of truth for whether an email address should
// receive mail. Addresses land here through unsubscribe requests and are
// checked before every send.
//
// The service layer contains pure business logic and depends on the
// Repository interface defined in repository.go. It never imports
// net/http or database/sql directly.
package suppression
