// Package security provides centralized security configuration and
// utilities: structured logging, input validation, rate limiting, and
// denial monitoring.
package security

import (
	"time"
)

// SecurityConfig holds all security-related tuning values.
type SecurityConfig struct {
	// Input validation limits
	MaxNameLength      int           // Maximum characters in station/employee names
	MaxIDLength        int           // Maximum characters in entity identifiers
	MaxSettingKeyLen   int           // Maximum characters in a setting key
	MaxSettingValueLen int           // Maximum bytes in a setting's JSON value
	MaxDetailsLength   int           // Maximum characters in an audit details field
	MaxBatchSize       int           // Maximum rows in a bulk log upsert
	QueryTimeout       time.Duration // Per-statement timeout budget

	// Rate limiting (requests per window)
	RateLimitLogBatch int // Bulk assignment-log upserts per minute per actor
	RateLimitSettings int // Settings writes per minute per actor

	// Denial monitoring
	AlertThresholdDenials    int // Policy denials before alerting
	AlertThresholdViolations int // Constraint violations before alerting
	MonitorWindow            time.Duration
}

// DefaultSecurityConfig returns the recommended defaults.
func DefaultSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		MaxNameLength:      200,
		MaxIDLength:        64,
		MaxSettingKeyLen:   128,
		MaxSettingValueLen: 64 * 1024, // 64KB of JSON is plenty for labels/colors
		MaxDetailsLength:   2000,
		MaxBatchSize:       500,
		QueryTimeout:       30 * time.Second,

		RateLimitLogBatch: 30, // per minute
		RateLimitSettings: 60, // per minute

		AlertThresholdDenials:    10,
		AlertThresholdViolations: 25,
		MonitorWindow:            5 * time.Minute,
	}
}
