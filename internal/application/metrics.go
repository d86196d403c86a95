package application

import "expvar"

// Counters published on /debug/vars.
var (
	metricRegistrations   = expvar.NewInt("auth_registrations_total")
	metricLoginsOK        = expvar.NewInt("auth_logins_succeeded_total")
	metricLoginsFailed    = expvar.NewInt("auth_logins_failed_total")
	metricEmailsValidated = expvar.NewInt("auth_emails_validated_total")
	metricNotifyFailures  = expvar.NewInt("notify_failures_total")
	metricMemberships     = expvar.NewInt("memberships_assigned_total")
)
