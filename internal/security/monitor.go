// Security monitoring: watches for bursts of policy denials and constraint
// violations that suggest a misbehaving or probing client.
package security

import (
	"sync"
	"time"
)

// Alerter receives alerts when a monitored threshold is crossed.
// Implementations might page, post to chat, or feed a SIEM; nil disables
// alerting while the events are still logged.
type Alerter interface {
	Alert(event SecurityEventType, identifier string, count int)
}

// SecurityMonitor tracks per-identifier event counts inside a sliding
// window and alerts when configured thresholds are crossed.
type SecurityMonitor struct {
	logger  *Logger
	config  *SecurityConfig
	alerter Alerter

	mu     sync.Mutex
	counts map[monitorKey]*windowCount
}

type monitorKey struct {
	event      SecurityEventType
	identifier string
}

type windowCount struct {
	count       int
	windowStart time.Time
}

// NewSecurityMonitor creates a monitor. alerter may be nil.
func NewSecurityMonitor(logger *Logger, config *SecurityConfig, alerter Alerter) *SecurityMonitor {
	return &SecurityMonitor{
		logger:  logger,
		config:  config,
		alerter: alerter,
		counts:  make(map[monitorKey]*windowCount),
	}
}

// RecordDenial records a policy denial for the identifier and alerts once
// the denial threshold is crossed within the window.
func (m *SecurityMonitor) RecordDenial(identifier string) {
	m.record(EventPolicyDenied, identifier, m.config.AlertThresholdDenials)
}

// RecordConstraintViolation records a database constraint violation
// (unique/foreign-key/not-null) attributed to the identifier.
func (m *SecurityMonitor) RecordConstraintViolation(identifier string) {
	m.record(EventConstraintViolation, identifier, m.config.AlertThresholdViolations)
}

func (m *SecurityMonitor) record(event SecurityEventType, identifier string, threshold int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := monitorKey{event, identifier}
	wc, ok := m.counts[key]
	now := time.Now()

	if !ok || now.Sub(wc.windowStart) > m.config.MonitorWindow {
		wc = &windowCount{windowStart: now}
		m.counts[key] = wc
	}

	wc.count++

	if wc.count == threshold {
		m.logger.SecurityEvent(event, identifier, "", "", map[string]interface{}{
			"count":  wc.count,
			"window": m.config.MonitorWindow.String(),
		})
		if m.alerter != nil {
			m.alerter.Alert(event, identifier, wc.count)
		}
	}
}

// Count returns the current in-window count for an event/identifier pair.
// Expired windows report zero.
func (m *SecurityMonitor) Count(event SecurityEventType, identifier string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	wc, ok := m.counts[monitorKey{event, identifier}]
	if !ok || time.Since(wc.windowStart) > m.config.MonitorWindow {
		return 0
	}
	return wc.count
}
