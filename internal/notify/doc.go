// Package notify delivers reminder events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Sends are rate limited so a dispatcher tick that drains a backlog
// of reminders does not hammer the topic.
//
// Extend this package if you need alternative transports; the dispatcher
// depends only on the simple Service interface.
package notify
