package reputation

import (
	"strings"
)

// Keyword sets matched by case-insensitive substring containment against
// the autonomous-system organization name. No tokenization or stemming.
var defaultDatacenterKeywords = []string{
	"datacenter", "data center", "hosting", "cloud", "server", "vps", "virtual private server",
	"aws", "amazon", "azure", "google cloud", "gcp", "digital ocean", "linode", "vultr", "oci",
	"oracle cloud", "alibaba cloud", "tencent cloud", "ibm cloud", "softlayer", "amazonaws",
	"microsoft", "googleusercontent", "oracle", "alibaba", "tencent", "heroku", "digitalocean",
	"clouvider", "cloudflare", "ovh", "hetzner", "scaleway", "upcloud", "packet", "rackspace",
	"hostwinds", "hostgator", "godaddy", "namecheap", "dreamhost", "bluehost", "ionos", "1and1",
	"leaseweb", "cogent", "choopa", "quadranet", "zenlayer", "psychz", "datacamp", "hostdime",
	"hostinger", "atlantic.net", "kamatera", "xneelo", "netactuate", "liteserver", "contabo",
	"aruba", "hivelocity", "server4you", "wholesaleinternet", "worldstream", "datapacket",
	"servers.com", "server4u", "fastly", "akamai", "gcore", "edgecast", "incapsula", "imperva",
}

var defaultProxyKeywords = []string{
	"proxy", "vpn", "tor", "exit node", "anonymous", "hide ip", "mask ip", "tunnel",
	"nordvpn", "expressvpn", "cyberghost", "surfshark", "private internet access", "pia",
	"protonvpn", "mullvad", "ipvanish", "torguard", "windscribe", "hidemyass", "hma",
	"purevpn", "vyprvpn", "strongvpn", "privatevpn", "tunnelbear", "zenmate", "hotspotshield",
	"vpnunlimited", "avast secureline", "norton secure vpn", "keepsolid", "clouvider", "cloudflare",
	"zscaler", "brightdata", "luminati", "oxylabs", "geosurf", "smartproxy", "stormproxies",
	"rsocks", "shifter", "soax", "packetstream", "netnut", "proxyrack", "privateproxy",
	"proxybonanza", "proxies.io", "proxy-seller", "proxyscrape", "proxies4all", "proxyseller",
	"proxynova", "proxy-cheap", "torproject", "exitnode", "onion",
}

// Classifier holds the static keyword sets, the high-risk country set, the
// malicious-address denylist, and the manual proxy override list. It is
// built once at startup and is read-only afterwards, so concurrent lookups
// need no locking.
type Classifier struct {
	datacenterKeywords []string
	proxyKeywords      []string
	highRiskCountries  map[string]struct{}
	maliciousIPs       map[string]struct{}
	proxyOverrides     map[string]struct{}
}

// NewClassifier builds a classifier from the operational address lists.
// Empty slices fall back to nothing, not to the defaults; callers normally
// pass the config values, which default to the seeded lists.
func NewClassifier(maliciousIPs, proxyOverrides, highRiskCountries []string) *Classifier {
	c := &Classifier{
		datacenterKeywords: defaultDatacenterKeywords,
		proxyKeywords:      defaultProxyKeywords,
		highRiskCountries:  make(map[string]struct{}, len(highRiskCountries)),
		maliciousIPs:       make(map[string]struct{}, len(maliciousIPs)),
		proxyOverrides:     make(map[string]struct{}, len(proxyOverrides)),
	}
	for _, cc := range highRiskCountries {
		c.highRiskCountries[strings.ToLower(cc)] = struct{}{}
	}
	for _, ip := range maliciousIPs {
		c.maliciousIPs[ip] = struct{}{}
	}
	for _, ip := range proxyOverrides {
		c.proxyOverrides[ip] = struct{}{}
	}
	return c
}

// MatchesDatacenter reports whether the organization name contains a known
// datacenter/cloud provider keyword. The name is lowercased before matching.
func (c *Classifier) MatchesDatacenter(organization string) bool {
	return containsAny(strings.ToLower(organization), c.datacenterKeywords)
}

// MatchesProxy reports whether the organization name contains a known
// proxy/VPN provider keyword.
func (c *Classifier) MatchesProxy(organization string) bool {
	return containsAny(strings.ToLower(organization), c.proxyKeywords)
}

// IsHighRiskCountry reports membership in the high-risk country set.
// The ISO code is lowercased before the membership test.
func (c *Classifier) IsHighRiskCountry(countryCode string) bool {
	_, ok := c.highRiskCountries[strings.ToLower(countryCode)]
	return ok
}

// IsMalicious reports whether the address is on the explicit denylist.
func (c *Classifier) IsMalicious(ip string) bool {
	_, ok := c.maliciousIPs[ip]
	return ok
}

// IsManualProxyOverride reports whether the address is pinned as a proxy
// regardless of what the databases say.
func (c *Classifier) IsManualProxyOverride(ip string) bool {
	_, ok := c.proxyOverrides[ip]
	return ok
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}
