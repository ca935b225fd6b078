package utils

import "time"

// Vietnam time location (ICT, +07:00)
var vnLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Ho_Chi_Minh"); err == nil {
		return loc
	}
	return time.FixedZone("ICT", 7*3600)
}()

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FormatVNPayTime renders a timestamp the way the gateway expects
// (yyyyMMddHHmmss in VN local time).
func FormatVNPayTime(t time.Time) string {
	return t.In(vnLoc).Format("20060102150405")
}

func FormatRFC3339VN(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(vnLoc).Format(time.RFC3339)
}
