// Package ui is the Fyne desktop front end of the media gallery: search and
// topic chips, the image/video grid, the saved collection, downloads and the
// upload form. Widgets never change gallery state directly; they call
// gallery.Session intents and re-render from the State it publishes.
// Notifications from the notify bus are shown as toasts.
package ui
