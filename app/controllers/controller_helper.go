package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GetClientIP determines the actual client IP address considering proxies.
func GetClientIP(c *fiber.Ctx) string {
	// Cloudflare provides the original client IP in this header
	if cfIP := strings.TrimSpace(c.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}

	// First entry of X-Forwarded-For is the original client
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	return c.IP()
}
