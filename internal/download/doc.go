// Package download saves media assets to the local disk. It keeps a table of
// tasks, runs at most a configured number of transfers at once and reports
// every state change through an update callback.
package download
