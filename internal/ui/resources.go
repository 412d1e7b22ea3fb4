package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// AppIcon is looked up in the working directory
const AppIcon = "pixhub.png"

// LoadLogoResource returns the application icon, falling back to the stock
// photo icon when pixhub.png is not next to the binary.
func LoadLogoResource() fyne.Resource {
	if res, err := fyne.LoadResourceFromPath(AppIcon); err == nil {
		return res
	}
	return theme.MediaPhotoIcon()
}

// placeholderFor returns the icon shown before (or instead of) a thumbnail
func placeholderFor(video bool) fyne.Resource {
	if video {
		return theme.FileVideoIcon()
	}
	return theme.FileImageIcon()
}
