// internal/ua/mobile.go
//
// Mobile detection for the app page.
//
// Context
// -------
// The app page serves one of two pre-loaded bodies.  The choice is a plain
// substring test on the User-Agent header: a match on any of the tokens
// below selects the mobile body, anything else (including an absent
// header) selects the desktop body.  The test is case-sensitive, so
// "android" in lowercase does not count.
//
// Notes
// -----
// • uasurfer's device class is richer, but it classifies some Silk and
//   iPad builds as desktop.  The app page keeps the token list instead.
package ua

import "regexp"

// MobileTokens lists the substrings that mark a mobile client.
var MobileTokens = []string{"Android", "iPhone", "iPod", "iPad", "Silk"}

var mobileRE = regexp.MustCompile(`Android|iPhone|iPod|iPad|Silk`)

// IsMobile reports whether raw contains one of MobileTokens.
func IsMobile(raw string) bool {
	return mobileRE.MatchString(raw)
}
