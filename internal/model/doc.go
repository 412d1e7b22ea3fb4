// Package model defines the data shared by the catalog client, the saved
// collection and the presentation layer: media items, categories, item
// identifiers, save outcomes and download task state.
package model
