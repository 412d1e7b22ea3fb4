// Package platform contains OS integration: the downloads directory,
// filesystem-safe names for saved media, and opening files with the system
// handler.
package platform
