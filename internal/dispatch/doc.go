// Package dispatch runs the background loop that turns due reminders into
// notifications.
//
// The Dispatcher polls the store on a fixed interval, drains everything due
// at the start of the tick, and marks each reminder sent only after the
// notifier accepts it. Delivery is therefore at-least-once: a notifier
// failure leaves the reminder unsent for the next tick, and a crash between
// delivery and the sent flag can repeat a notification but never lose one.
// Store read failures abandon the tick and retry on a shorter interval.
package dispatch
