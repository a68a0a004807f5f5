package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taponce/backend/internal/interfaces/http/dto"
)

// SwaggerConfig controls who may read the API documentation
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool
	AllowedIPs  []string // single IPs or CIDRs, empty allows any address
}

// SwaggerProtection guards the /swagger routes. A disabled endpoint answers
// 404. The IP allow list is checked before the JWT.
func SwaggerProtection(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlerFunc {
	allowedIPs, allowedNets := parseAllowList(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
			return
		}

		if len(cfg.AllowedIPs) > 0 && !isIPAllowed(getClientIP(c), allowedIPs, allowedNets) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access to API documentation is restricted")
			return
		}

		if cfg.RequireAuth && jwtMiddleware != nil {
			jwtMiddleware(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

// parseAllowList splits entries into exact IPs and networks. Unparseable
// entries are skipped.
func parseAllowList(entries []string) ([]net.IP, []*net.IPNet) {
	var ips []net.IP
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				nets = append(nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			ips = append(ips, ip)
		}
	}
	return ips, nets
}

// getClientIP prefers gin's ClientIP, which honours trusted proxies, and
// falls back to the remote address
func getClientIP(c *gin.Context) net.IP {
	if ip := net.ParseIP(c.ClientIP()); ip != nil {
		return ip
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		host = c.Request.RemoteAddr
	}
	return net.ParseIP(host)
}

func isIPAllowed(ip net.IP, allowedIPs []net.IP, allowedNets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range allowedIPs {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range allowedNets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
