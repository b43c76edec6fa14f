package profileverify

import "strings"

// PlatformWeb marks a URL that does not belong to a known social platform;
// such domains are candidates for the WHOIS presence-age lookup.
const PlatformWeb = "web"

var platformHosts = map[string]string{
	"instagram.com": "instagram",
	"facebook.com":  "facebook",
	"fb.com":        "facebook",
	"twitter.com":   "twitter",
	"x.com":         "twitter",
	"linkedin.com":  "linkedin",
	"tiktok.com":    "tiktok",
	"snapchat.com":  "snapchat",
	"vk.com":        "vk",
}

// detectPlatform maps a hostname to a platform name, tolerating subdomains
// like www. or m.
func detectPlatform(host string) string {
	h := strings.ToLower(host)
	for suffix, platform := range platformHosts {
		if h == suffix || strings.HasSuffix(h, "."+suffix) {
			return platform
		}
	}
	return PlatformWeb
}
