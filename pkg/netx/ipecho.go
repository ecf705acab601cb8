package netx

import (
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// echoServices are tried in order until one answers with a parseable address.
var echoServices = []string{
	"http://ipv4.icanhazip.com",
	"https://api.ipify.org",
	"https://ifconfig.me/ip",
}

// PublicIP returns this host's externally visible IPv4 address, or "" when
// nothing answers. A local egress probe is tried first; hosts behind NAT fall
// through to the echo services. Lookups are best-effort and never retried; an
// empty result propagates into whatever message or URL the caller builds.
func PublicIP() string {
	if ip := egressIP(); ip != "" {
		return ip
	}
	for _, svc := range echoServices {
		if ip := fetchPublicIP(svc); ip != "" {
			return ip
		}
	}
	return ""
}

// egressIP reports the local address chosen for default-route traffic, when
// that address is itself public.
func egressIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return ""
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil || addr.IP.To4() == nil {
		return ""
	}
	if !isPublic(addr.IP) {
		return ""
	}
	return addr.IP.String()
}

func fetchPublicIP(url string) string {
	client := http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	ip := strings.TrimSpace(string(b))
	if ip == "" {
		return ""
	}
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil || !isPublic(parsed) {
		return ""
	}
	return ip
}

func isPrivate(ip net.IP) bool {
	if v4 := ip.To4(); v4 != nil {
		// 10.0.0.0/8, 172.16/12, 192.168/16, 100.64/10, 169.254/16
		if v4[0] == 10 {
			return true
		}
		if v4[0] == 172 && v4[1]&0xf0 == 16 {
			return true
		}
		if v4[0] == 192 && v4[1] == 168 {
			return true
		}
		if v4[0] == 100 && v4[1]&0xc0 == 0x40 {
			return true
		}
		if v4[0] == 169 && v4[1] == 254 {
			return true
		}
	}
	return ip.IsLoopback()
}

func isPublic(ip net.IP) bool {
	if ip == nil {
		return false
	}
	return ip.IsGlobalUnicast() && !isPrivate(ip)
}
