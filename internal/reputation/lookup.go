package reputation

import (
	"fmt"
	"net"

	"github.com/oschwald/geoip2-golang"
	"go.uber.org/zap"
)

// Finding holds every signal resolved for one network address. It is
// transient per lookup; nothing in it is shared or retained.
type Finding struct {
	IP string

	CountryCode  string
	CountryName  string
	Organization string
	ASN          uint

	// Anonymity-database flags. Any one of them true implies an
	// anonymized origin.
	AnonymousVPN     bool
	HostingProvider  bool
	PublicProxy      bool
	TorExitNode      bool
	ResidentialProxy bool
	Anonymous        bool

	// Sub-verdicts feeding the final proxy verdict.
	DatacenterMatch   bool
	ProxyKeywordMatch bool
	HighRiskCountry   bool

	// IsProxy is the combined verdict: datacenter keyword, proxy keyword,
	// high-risk geography, or anonymity flag.
	IsProxy bool

	// Local is true for loopback, private, and unset addresses. Local
	// traffic is never treated as a proxy and gets full geography credit.
	Local bool

	// Malformed is true when the address failed to parse. Malformed
	// addresses degrade to non-proxy, unknown geography.
	Malformed bool

	// CountryResolved is true when the country database returned a match.
	CountryResolved bool

	// CountryUnavailable is true when no country database is loaded.
	CountryUnavailable bool

	// Degraded is true when no reputation database at all was available.
	Degraded bool
}

// Lookup resolves reputation signals for network addresses against the
// MaxMind ASN, Country, and Anonymous-IP databases. Every database is
// optional: a missing or corrupt file leaves its reader nil and the
// affected checks degrade to neutral defaults. Resolve never returns an
// error; degraded lookups are a finding, not a failure.
type Lookup struct {
	asnReader     *geoip2.Reader
	countryReader *geoip2.Reader
	anonReader    *geoip2.Reader
	classifier    *Classifier
	logger        *zap.Logger
}

// NewLookup opens the configured database files. Open failures are logged
// and tolerated so the service can start in degraded mode.
func NewLookup(asnPath, countryPath, anonymousIPPath string, classifier *Classifier, logger *zap.Logger) *Lookup {
	l := &Lookup{
		classifier: classifier,
		logger:     logger,
	}

	l.asnReader = openDatabase(asnPath, "asn", logger)
	l.countryReader = openDatabase(countryPath, "country", logger)
	l.anonReader = openDatabase(anonymousIPPath, "anonymous_ip", logger)

	if l.Degraded() {
		logger.Warn("No GeoIP databases available, reputation lookups run in degraded mode")
	}
	return l
}

func openDatabase(path, name string, logger *zap.Logger) *geoip2.Reader {
	if path == "" {
		logger.Warn("GeoIP database not configured", zap.String("database", name))
		return nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		logger.Warn("Failed to open GeoIP database, continuing without it",
			zap.String("database", name),
			zap.String("path", path),
			zap.Error(err))
		return nil
	}
	logger.Info("Loaded GeoIP database", zap.String("database", name), zap.String("path", path))
	return reader
}

// Close releases the database readers.
func (l *Lookup) Close() {
	for _, reader := range []*geoip2.Reader{l.asnReader, l.countryReader, l.anonReader} {
		if reader != nil {
			reader.Close()
		}
	}
}

// Degraded reports whether no reputation database is loaded at all.
func (l *Lookup) Degraded() bool {
	return l.asnReader == nil && l.countryReader == nil && l.anonReader == nil
}

// Resolve looks up every reputation signal for the given address. The
// manual override list is consulted before the general pipeline; the
// anonymity database may short-circuit the keyword and geography checks,
// which is the only short-circuit permitted.
func (l *Lookup) Resolve(ip string) Finding {
	finding := Finding{
		IP:                 ip,
		Degraded:           l.Degraded(),
		CountryUnavailable: l.countryReader == nil,
	}

	// Operational pinning for known-bad singletons the databases miss.
	// Geography stays best-effort and independent of the forced verdict.
	if l.classifier.IsManualProxyOverride(ip) {
		l.logger.Info("IP pinned as proxy by manual override", zap.String("ip", ip))
		finding.IsProxy = true
		if parsed := net.ParseIP(ip); parsed != nil && !isLocalAddress(parsed) {
			l.resolveCountry(parsed, &finding)
			finding.HighRiskCountry = finding.CountryResolved && l.classifier.IsHighRiskCountry(finding.CountryCode)
		}
		return finding
	}

	// An unset address is back-filled upstream; when it still reaches the
	// engine empty it is local/test traffic, not an adversarial path.
	if ip == "" {
		finding.Local = true
		return finding
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		l.logger.Debug("Unparseable IP address", zap.String("ip", ip))
		finding.Malformed = true
		return finding
	}

	if isLocalAddress(parsed) {
		finding.Local = true
		return finding
	}

	l.resolveCountry(parsed, &finding)
	finding.HighRiskCountry = finding.CountryResolved && l.classifier.IsHighRiskCountry(finding.CountryCode)

	if l.checkAnonymous(parsed, &finding) {
		// An anonymity hit decides the verdict; keyword checks are skipped.
		finding.Anonymous = true
		finding.IsProxy = true
		return finding
	}

	l.resolveASN(parsed, &finding)
	finding.DatacenterMatch = l.classifier.MatchesDatacenter(finding.Organization)
	finding.ProxyKeywordMatch = l.classifier.MatchesProxy(finding.Organization)

	finding.IsProxy = finding.DatacenterMatch || finding.ProxyKeywordMatch || finding.HighRiskCountry

	if finding.IsProxy {
		l.logger.Info("IP classified as proxy/datacenter origin",
			zap.String("ip", ip),
			zap.String("organization", finding.Organization),
			zap.Bool("datacenter_match", finding.DatacenterMatch),
			zap.Bool("proxy_keyword_match", finding.ProxyKeywordMatch),
			zap.Bool("high_risk_country", finding.HighRiskCountry))
	}
	return finding
}

// checkAnonymous queries the anonymity database. Returns true when any of
// the anonymity flags is set. Misses and errors report false.
func (l *Lookup) checkAnonymous(ip net.IP, finding *Finding) bool {
	if l.anonReader == nil {
		return false
	}

	record, err := l.anonReader.AnonymousIP(ip)
	if err != nil {
		l.logger.Debug("Anonymous-IP lookup miss", zap.String("ip", ip.String()), zap.Error(err))
		return false
	}

	finding.AnonymousVPN = record.IsAnonymousVPN
	finding.HostingProvider = record.IsHostingProvider
	finding.PublicProxy = record.IsPublicProxy
	finding.TorExitNode = record.IsTorExitNode
	finding.ResidentialProxy = record.IsResidentialProxy

	anonymous := record.IsAnonymousVPN || record.IsHostingProvider || record.IsPublicProxy ||
		record.IsTorExitNode || record.IsResidentialProxy
	if anonymous {
		l.logger.Info("IP flagged by anonymity database",
			zap.String("ip", ip.String()),
			zap.Bool("vpn", record.IsAnonymousVPN),
			zap.Bool("hosting", record.IsHostingProvider),
			zap.Bool("public_proxy", record.IsPublicProxy),
			zap.Bool("tor_exit", record.IsTorExitNode),
			zap.Bool("residential_proxy", record.IsResidentialProxy))
	}
	return anonymous
}

func (l *Lookup) resolveASN(ip net.IP, finding *Finding) {
	if l.asnReader == nil {
		return
	}
	record, err := l.asnReader.ASN(ip)
	if err != nil {
		l.logger.Debug("ASN lookup miss", zap.String("ip", ip.String()), zap.Error(err))
		return
	}
	finding.ASN = uint(record.AutonomousSystemNumber)
	finding.Organization = record.AutonomousSystemOrganization
}

// resolveCountry is best-effort and independent of the proxy checks:
// failure yields an unresolved country, never an error.
func (l *Lookup) resolveCountry(ip net.IP, finding *Finding) {
	if l.countryReader == nil {
		return
	}
	record, err := l.countryReader.Country(ip)
	if err != nil {
		l.logger.Debug("Country lookup miss", zap.String("ip", ip.String()), zap.Error(err))
		return
	}
	finding.CountryCode = record.Country.IsoCode
	finding.CountryName = record.Country.Names["en"]
	finding.CountryResolved = finding.CountryCode != ""
}

// GeoSummary returns a human-readable description of where an address
// resolves to, for inclusion in score results and logs.
func (l *Lookup) GeoSummary(ip string) string {
	if ip == "" {
		return "local loopback address"
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "unknown"
	}
	if parsed.IsLoopback() {
		return "local loopback address"
	}
	if isLocalAddress(parsed) {
		return "private network address"
	}

	if l.countryReader == nil {
		return "unknown"
	}
	record, err := l.countryReader.Country(parsed)
	if err != nil || record.Country.IsoCode == "" {
		return "unknown location"
	}

	summary := fmt.Sprintf("%s (%s)", record.Country.Names["en"], record.Country.IsoCode)
	if l.asnReader != nil {
		if asn, err := l.asnReader.ASN(parsed); err == nil && asn.AutonomousSystemOrganization != "" {
			summary += fmt.Sprintf(" (%s)", asn.AutonomousSystemOrganization)
		}
	}
	return summary
}

func isLocalAddress(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
