// internal/ua/ua.go
//
// User-Agent parsing helpers.
//
// This wrapper isolates the third-party `github.com/avct/uasurfer` API so
// the rest of the site never sees its enums or structs.  The access log
// and the render-error logger attach the parsed fields to their events.
package ua

import (
	"fmt"
	"strconv"

	surfer "github.com/avct/uasurfer"
)

// Info carries the UA attributes written to logs.
//
// Example (Chrome on Android):
//
//	Browser   "BrowserChrome"
//	Version   "125.0.6422"
//	OS        "OSAndroid"
//	Device    "Mobile"
//	IsBot     false
//	Mobile    true
//
// Device will be one of: "Desktop", "Mobile", "Tablet", or "Other".
type Info struct {
	Browser string `json:"browser"`
	Version string `json:"version,omitempty"`
	OS      string `json:"os"`
	Device  string `json:"device"`
	IsBot   bool   `json:"bot"`
	Mobile  bool   `json:"mobile"`
}

// Parse converts a raw header into an Info struct.  Mobile follows
// IsMobile, not uasurfer's device class, so logs agree with the body the
// app page actually served.
func Parse(raw string) Info {
	u := surfer.Parse(raw)

	info := Info{
		Browser: u.Browser.Name.String(),
		Version: versionToString(u.Browser.Version),
		OS:      u.OS.Name.String(),
		IsBot:   u.IsBot(),
		Mobile:  IsMobile(raw),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

// versionToString renders a version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	switch {
	case v.Major == 0 && v.Minor == 0 && v.Patch == 0:
		return ""
	case v.Patch != 0:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	case v.Minor != 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return strconv.Itoa(v.Major)
	}
}
