// Package timezone holds the application time zone (APP_TIMEZONE, an IANA
// name such as "Asia/Tokyo"). Exhibition dates are calendar dates in this
// zone, so every "now" used for days-remaining and timestamps comes from Now.
package timezone
